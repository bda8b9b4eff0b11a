package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EventCreatedName is the factory event emitted once per sale.
const EventCreatedName = "EventCreated"

// EventCreatedTopic is the first topic of every `EventCreated` log.
var EventCreatedTopic = FactoryABI.Events[EventCreatedName].ID

// EventCreated is a decoded `EventCreated` log. Fields absent from a malformed log are zero
// and listed in Missing.
type EventCreated struct {
	Organizer         common.Address
	ID                *big.Int
	EventTicket       common.Address
	TicketSale        common.Address
	TicketMarketplace common.Address

	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint

	Missing []string
}

// CreateSaleParams is the tuple argument of `createSale`. Field names follow the ABI components.
type CreateSaleParams struct {
	Name       string
	Symbol     string
	BaseURI    string
	Organizer  common.Address
	PriceInWei *big.Int
	MaxSupply  *big.Int
	SaleStart  *big.Int
	SaleEnd    *big.Int
}

const wordSize = 32

// DecodeEventCreated decodes a factory log. It never fails: indexed fields come from topics,
// non-indexed addresses from consecutive data words, and anything missing falls back to zero.
func DecodeEventCreated(log types.Log) EventCreated {
	ev := EventCreated{
		ID:          new(big.Int),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.Index,
	}

	if len(log.Topics) > 1 {
		ev.Organizer = common.BytesToAddress(log.Topics[1].Bytes())
	} else {
		ev.Missing = append(ev.Missing, "organizer")
	}
	if len(log.Topics) > 2 {
		ev.ID = new(big.Int).SetBytes(log.Topics[2].Bytes())
	} else {
		ev.Missing = append(ev.Missing, "id")
	}

	fields := []struct {
		name string
		dst  *common.Address
	}{
		{"eventTicket", &ev.EventTicket},
		{"ticketSale", &ev.TicketSale},
		{"ticketMarketplace", &ev.TicketMarketplace},
	}
	for i, field := range fields {
		end := (i + 1) * wordSize
		if len(log.Data) < end {
			ev.Missing = append(ev.Missing, field.name)
			continue
		}
		*field.dst = common.BytesToAddress(log.Data[end-wordSize : end])
	}
	return ev
}
