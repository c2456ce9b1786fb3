package response

// InteractionResponse tells the relay what to show the user after an
// action was processed.
type InteractionResponse struct {
	Message  string `json:"message,omitempty"`
	OrderID  int64  `json:"orderId,omitempty"`
	ProofURL string `json:"proofUrl,omitempty"`
	// QRCodeText carries payment instructions for purchase flows.
	QRCodeText string `json:"qrCodeText,omitempty"`
	TotalCents int64  `json:"totalCents,omitempty"`
	// Items offers a choice when the action needs a follow-up selection.
	Items []*ItemResponse `json:"items,omitempty"`
}
