package request

type SubmitProofRequest struct {
	PhotoURL string `json:"photo_url" binding:"required,url"`
	Note     string `json:"note" binding:"max=500"`
}

type SubmitReviewRequest struct {
	BuyerRef string `json:"buyer_ref" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"required,max=1000"`
}

type PaymentWebhookRequest struct {
	Pix []PixEvent `json:"pix"`
}

type PixEvent struct {
	TxID string `json:"txid"`
}
