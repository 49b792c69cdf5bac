package internal

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	QuestionsFile  string `env:"QUESTIONS_FILE,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	UserA          string `env:"USER_A,default=User 1"`
	UserB          string `env:"USER_B,default=User 2"`
	// ChatStart is the first day the couple started journaling; the
	// question-list view never looks further back.
	ChatStart string `env:"CHAT_START,default=2025-02-01"`
}
