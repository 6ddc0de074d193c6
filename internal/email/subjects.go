package email

const (
	subjectReport      = "Your Lead Generation Assessment Results"
	subjectFollowupFmt = "Your next step: %s"
)
