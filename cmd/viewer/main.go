package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"whysapp/domain"
	"whysapp/internal"
	"whysapp/repositories"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// viewer prints the persisted state as tables without touching it:
// by default the question list from the chat start date through today,
// or one day's conversation with -date.
func main() {
	date := flag.String("date", "", "show the conversation for this day instead (YYYY-MM-DD)")
	flag.Parse()

	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	slogger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening if another process holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *date != "" {
		day, err := domain.ParseDay(*date)
		if err != nil {
			log.Fatalf("Invalid date: %v", err)
		}
		printConversation(repositories.NewMessageRepository(db, slogger),
			repositories.NewQuestionRepository(db, slogger), day)
		return
	}

	start, err := domain.ParseDay(config.ChatStart)
	if err != nil {
		log.Fatalf("Invalid CHAT_START: %v", err)
	}
	printQuestionList(repositories.NewQuestionRepository(db, slogger), start, domain.Today())
}

func printQuestionList(repo repositories.IQuestionRepository, from, to domain.Day) {
	color.New(color.BgBlack, color.FgGreen).Printf("  ====== Daily Questions %s .. %s ======\n", from, to)

	table := newTable()
	table.SetHeader([]string{"Date", "Daily Question"})
	for year := from.Year(); year <= to.Year(); year++ {
		list, err := repo.ListYear(year)
		if err != nil {
			log.Fatalf("Failed to read mapping: %v", err)
		}
		for _, dq := range list {
			if dq.Day >= from && dq.Day <= to {
				table.Append([]string{string(dq.Day), dq.Question})
			}
		}
	}
	table.Render()
}

func printConversation(messages repositories.IMessageRepository, questions repositories.IQuestionRepository, day domain.Day) {
	question, ok, err := questions.QuestionFor(day)
	if err != nil {
		log.Fatalf("Failed to read mapping: %v", err)
	}
	if !ok {
		question = "No question available for this date."
	}
	color.New(color.BgBlack, color.FgGreen).Printf("  ====== %s — %s ======\n", day, question)

	list, err := messages.ListForDate(day)
	if err != nil {
		log.Fatalf("Failed to read messages: %v", err)
	}

	table := newTable()
	table.SetHeader([]string{"ID", "Sender", "Message", "Sent At"})
	for _, msg := range list {
		table.Append([]string{
			fmt.Sprintf("%d", msg.ID),
			msg.Sender,
			msg.Body,
			msg.SentAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
}

func newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
