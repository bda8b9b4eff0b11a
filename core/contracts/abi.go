package contracts

import (
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

const factoryABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "organizer", "type": "address"},
      {"indexed": true, "name": "id", "type": "uint256"},
      {"indexed": false, "name": "eventTicket", "type": "address"},
      {"indexed": false, "name": "ticketSale", "type": "address"},
      {"indexed": false, "name": "ticketMarketplace", "type": "address"}
    ],
    "name": "EventCreated",
    "type": "event"
  },
  {
    "inputs": [
      {
        "name": "createSaleParams",
        "type": "tuple",
        "components": [
          {"name": "name", "type": "string"},
          {"name": "symbol", "type": "string"},
          {"name": "baseURI", "type": "string"},
          {"name": "organizer", "type": "address"},
          {"name": "priceInWei", "type": "uint256"},
          {"name": "maxSupply", "type": "uint256"},
          {"name": "saleStart", "type": "uint256"},
          {"name": "saleEnd", "type": "uint256"}
        ]
      }
    ],
    "name": "createSale",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

const ticketABIJSON = `[
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "baseURI", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const saleABIJSON = `[
  {"inputs": [], "name": "eventOrganizer", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "saleStart", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "saleEnd", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "ticketPriceWei", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "ticketMaxSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "WETH", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {
    "inputs": [
      {"name": "ticketAmount", "type": "uint256"},
      {"name": "priceLimitPerTicket", "type": "uint256"}
    ],
    "name": "buy",
    "outputs": [{"name": "ticketIds", "type": "uint256[]"}],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

const wethABIJSON = `[
  {
    "inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}],
    "name": "allowance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"
  },
  {
    "inputs": [{"name": "owner", "type": "address"}],
    "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"
  },
  {
    "inputs": [{"name": "spender", "type": "address"}, {"name": "amount", "type": "uint256"}],
    "name": "approve", "outputs": [{"type": "bool"}], "stateMutability": "nonpayable", "type": "function"
  },
  {"inputs": [], "name": "deposit", "outputs": [], "stateMutability": "payable", "type": "function"}
]`

var (
	FactoryABI = mustParse(factoryABIJSON)
	TicketABI  = mustParse(ticketABIJSON)
	SaleABI    = mustParse(saleABIJSON)
	WETHABI    = mustParse(wethABIJSON)
)

func mustParse(raw string) *abi.ABI {
	parsed := utils.Must(abi.JSON(strings.NewReader(raw)))
	return &parsed
}

// Function names used across modules.
const (
	MethodCreateSale = "createSale"

	MethodName        = "name"
	MethodSymbol      = "symbol"
	MethodBaseURI     = "baseURI"
	MethodTotalSupply = "totalSupply"

	MethodEventOrganizer  = "eventOrganizer"
	MethodSaleStart       = "saleStart"
	MethodSaleEnd         = "saleEnd"
	MethodTicketPriceWei  = "ticketPriceWei"
	MethodTicketMaxSupply = "ticketMaxSupply"
	MethodWETH            = "WETH"
	MethodBuy             = "buy"

	MethodAllowance = "allowance"
	MethodBalanceOf = "balanceOf"
	MethodApprove   = "approve"
	MethodDeposit   = "deposit"
)
