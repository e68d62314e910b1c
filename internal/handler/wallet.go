package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// WalletHandler handles HTTP requests for wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// TopUpRequest is the HTTP request body for topping up a wallet.
// The amount is a decimal string to avoid float rounding on the wire.
type TopUpRequest struct {
	Amount string `json:"amount"`
}

// WalletResponse is the HTTP response for wallet data.
type WalletResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Balance string `json:"balance"`
}

// TransactionResponse is the HTTP response for a ledger entry.
type TransactionResponse struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	TripID    string `json:"trip_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toWalletResponse(wallet *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:      wallet.ID,
		UserID:  wallet.UserID,
		Balance: wallet.Balance.StringFixed(2),
	}
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Amount:    tx.Amount.StringFixed(2),
		Type:      string(tx.Type),
		TripID:    tx.TripID,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}

// GetWallet handles GET /v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// TopUp handles POST /v1/wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
		return
	}

	wallet, err := h.walletService.TopUp(c.Request.Context(), userID, amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// GetTransactions handles GET /v1/wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	transactions, err := h.walletService.GetTransactions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, toTransactionResponse(tx))
	}

	c.JSON(http.StatusOK, response)
}
