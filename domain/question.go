package domain

// DailyQuestion pairs a calendar date with its assigned question.
type DailyQuestion struct {
	Day      Day
	Question string
}
