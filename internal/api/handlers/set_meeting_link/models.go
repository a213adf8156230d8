package set_meeting_link

// SetMeetingLinkRequest HTTP request model
type SetMeetingLinkRequest struct {
	MeetingLink string `json:"meetingLink"`
}
