package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api/reports"
	"PokerClubBooks/internal/reportcalc"
	"PokerClubBooks/internal/serviceiface"
	"PokerClubBooks/internal/timeutil"
)

const helpText = "Available commands:\n" +
	"/week - Get your report from the beginning of the week (last Thursday) to now\n" +
	"/month - Get your report for the entire current month\n" +
	"/help - Show this help message"

// BotService answers agent report commands over Telegram. Chats are tied to
// agents through the agent_telegram_mapping table; without a bot token the
// service starts as a no-op.
type BotService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	db     *sql.DB
	bot    *tgbotapi.BotAPI
	done   chan struct{}
}

func NewBotService(cfg map[string]interface{}, pool *pgxpool.Pool, db *sql.DB) serviceiface.Service {
	return &BotService{config: cfg, pool: pool, db: db}
}

func (s *BotService) Name() string {
	return "telegram"
}

func (s *BotService) Start() error {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("[INFO] telegram: TELEGRAM_BOT_TOKEN not set, bot disabled")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("telegram bot init: %v", err)
	}
	s.bot = bot
	s.done = make(chan struct{})

	go s.poll()
	log.Printf("[INFO] telegram: bot running as @%s", bot.Self.UserName)
	return nil
}

func (s *BotService) Stop() error {
	if s.bot != nil {
		s.bot.StopReceivingUpdates()
		close(s.done)
	}
	return nil
}

func (s *BotService) poll() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.bot.GetUpdatesChan(u)

	for {
		select {
		case <-s.done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			s.handleCommand(update.Message)
		}
	}
}

func (s *BotService) handleCommand(msg *tgbotapi.Message) {
	now := time.Now().In(timeutil.ClubLocation())

	switch msg.Command() {
	case "week":
		start, end := timeutil.CurrentWeekRange(now)
		s.sendAgentReport(msg.Chat.ID, start, end, "Current Week")
	case "month":
		start, end := timeutil.CurrentMonthRange(now)
		s.sendAgentReport(msg.Chat.ID, start, end, "Current Month")
	case "help":
		s.reply(msg.Chat.ID, helpText)
	default:
		s.reply(msg.Chat.ID, "Unknown command. Send /help for the list of commands.")
	}
}

func (s *BotService) sendAgentReport(chatID int64, start, end time.Time, periodLabel string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	agentID, ok := s.agentForChat(ctx, chatID)
	if !ok {
		s.reply(chatID, "Sorry, this chat is not associated with an agent. Please contact an administrator.")
		return
	}

	split, summaries, err := reports.AgentWindow(ctx, s.pool, s.db, start, end)
	if err != nil {
		log.Printf("[ERROR] telegram: agent report for chat %d: %v", chatID, err)
		s.reply(chatID, fmt.Sprintf("Error fetching report: %v", err))
		return
	}

	agentName := fmt.Sprintf("Agent %d", agentID)
	for _, summary := range summaries {
		if summary.AgentID == agentID && summary.AgentName != "" {
			agentName = summary.AgentName
			break
		}
	}

	text := reportcalc.FormatAgentReport(agentName, periodLabel, reports.FilterByAgent(split, agentID))
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	if _, err := s.bot.Send(out); err != nil {
		log.Printf("[ERROR] telegram: send to chat %d: %v", chatID, err)
	}
}

func (s *BotService) agentForChat(ctx context.Context, chatID int64) (int64, bool) {
	var agentID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT agent_id FROM agent_telegram_mapping WHERE chat_id = $1`,
		fmt.Sprintf("%d", chatID)).Scan(&agentID)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[ERROR] telegram: chat mapping lookup %d: %v", chatID, err)
		}
		return 0, false
	}
	return agentID, true
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("[ERROR] telegram: send to chat %d: %v", chatID, err)
	}
}
