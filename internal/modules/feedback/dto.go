package feedback

type CreateFeedbackRequest struct {
	BookingID           string `json:"bookingId" binding:"required"`
	Rating              int    `json:"rating"`
	FeedbackDescription string `json:"feedbackDescription"`
}
