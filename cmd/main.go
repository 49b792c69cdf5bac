package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"whysapp/domain"
	"whysapp/internal"
	"whysapp/repositories"
	"whysapp/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const usage = "usage: whysapp <send|list|edit|delete|question> [flags]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes the core and dispatches one subcommand. Returning an
// error instead of exiting keeps the defers (database close, sequence
// release) running on every path.
func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(usage)
	}

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	roster, err := domain.NewRoster(config.UserA, config.UserB)
	if err != nil {
		return fmt.Errorf("invalid participants: %w", err)
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Debug("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & Services
	messages := repositories.NewMessageRepository(db, log)
	defer func() { _ = messages.Close() }()
	chat := services.NewChatService(messages, roster, log)
	questions := services.NewQuestionService(
		repositories.NewQuestionRepository(db, log), config.QuestionsFile, log)

	switch cmd, rest := args[0], args[1:]; cmd {
	case "send":
		return sendCmd(chat, rest)
	case "list":
		return listCmd(chat, questions, roster, rest)
	case "edit":
		return editCmd(chat, rest)
	case "delete":
		return deleteCmd(chat, rest)
	case "question":
		return questionCmd(questions, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func sendCmd(chat services.IChatService, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	sender := fs.String("as", "", "sender identity")
	date := fs.String("date", "", "send for a past day (YYYY-MM-DD), default today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day, err := explicitDay(*date)
	if err != nil {
		return err
	}
	id, err := chat.Send(*sender, strings.Join(fs.Args(), " "), day)
	if err != nil {
		return err
	}
	fmt.Printf("Message sent! (id %d)\n", id)
	return nil
}

func listCmd(chat services.IChatService, questions services.IQuestionService, roster domain.Roster, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	date := fs.String("date", string(domain.Today()), "day to show (YYYY-MM-DD)")
	viewer := fs.String("as", roster.A, "identity reading the conversation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := domain.ParseDay(*date)
	if err != nil {
		return err
	}

	if err := questions.EnsureYear(day.Year()); err != nil {
		// The conversation is still readable without a question.
		fmt.Fprintf(os.Stderr, "question mapping unavailable: %v\n", err)
	}
	question, ok, err := questions.QuestionFor(day)
	if err != nil {
		return err
	}
	if !ok {
		question = "No question available for this date."
	}
	color.New(color.FgCyan, color.Bold).Printf("Question of the Day: %s\n\n", question)

	messages, err := chat.Conversation(day)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Println("No messages for the selected date.")
		return nil
	}
	for _, msg := range messages {
		line := fmt.Sprintf("[%d] %s : %s", msg.ID, msg.Sender, msg.Body)
		if msg.Sender == *viewer {
			color.Green.Println(line)
		} else {
			color.Yellow.Println(line)
		}
	}
	return nil
}

func editCmd(chat services.IChatService, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	requester := fs.String("as", "", "requesting identity")
	id := fs.Uint64("id", 0, "message id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := chat.Edit(*id, *requester, strings.Join(fs.Args(), " ")); err != nil {
		return err
	}
	fmt.Println("Message updated successfully!")
	return nil
}

func deleteCmd(chat services.IChatService, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	requester := fs.String("as", "", "requesting identity")
	id := fs.Uint64("id", 0, "message id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := chat.Delete(*id, *requester); err != nil {
		return err
	}
	fmt.Println("Message deleted successfully!")
	return nil
}

func questionCmd(questions services.IQuestionService, args []string) error {
	fs := flag.NewFlagSet("question", flag.ContinueOnError)
	date := fs.String("date", string(domain.Today()), "day to look up (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := domain.ParseDay(*date)
	if err != nil {
		return err
	}
	if err := questions.EnsureYear(day.Year()); err != nil {
		return err
	}
	question, ok, err := questions.QuestionFor(day)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No question available for this date.")
		return nil
	}
	fmt.Println(question)
	return nil
}

// explicitDay maps the -date flag to the store's explicit-day
// parameter: only a day other than today forces a midnight timestamp,
// mirroring how sending works in the date-picker UI.
func explicitDay(date string) (*domain.Day, error) {
	if date == "" {
		return nil, nil
	}
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, err
	}
	if day == domain.Today() {
		return nil, nil
	}
	return &day, nil
}
