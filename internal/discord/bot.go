package discord

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/starsgrow/libertad-financiera/internal/config"
	"github.com/starsgrow/libertad-financiera/internal/report"
	"github.com/starsgrow/libertad-financiera/internal/storage"
	"github.com/starsgrow/libertad-financiera/internal/syncer"
)

// reminderInterval is how often the bot re-checks for upcoming bills and
// stale patrimony valuations.
const reminderInterval = 24 * time.Hour

type Bot struct {
	session   *discordgo.Session
	store     *storage.Store
	syncer    *syncer.Syncer
	log       *logrus.Logger
	channelID string
	startTime time.Time
	stop      chan struct{}
}

// NewBot wires the command surface to an already-open store. The syncer
// may be nil when no Drive credentials are configured.
func NewBot(cfg *config.Config, store *storage.Store, sy *syncer.Syncer, log *logrus.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		store:     store,
		syncer:    sy,
		log:       log,
		channelID: cfg.DiscordChannelId,
		startTime: time.Now(),
		stop:      make(chan struct{}),
	}

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages

	return bot, nil
}

func (b *Bot) Start() error {
	go b.startHealthServer()
	go b.reminderLoop()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (b *Bot) Stop() {
	close(b.stop)
	b.session.Close()
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return //bot's messages
	}

	if m.ChannelID != b.channelID {
		return //specific to the channel
	}

	args := strings.Fields(m.Content)
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "!add":
		b.handleAdd(s, m, args[1:])
	case "!transfer":
		b.handleTransfer(s, m, args[1:])
	case "!adjust":
		b.handleAdjust(s, m, args[1:])
	case "!summary":
		b.handleSummary(s, m)
	case "!daily":
		b.handleDaily(s, m)
	case "!bills":
		b.handleBills(s, m)
	case "!pay":
		b.handlePay(s, m, args[1:])
	case "!patrimony":
		b.handlePatrimony(s, m)
	case "!sync":
		b.handleSync(s, m)
	case "!help":
		s.ChannelMessageSend(m.ChannelID, helpText)
	}
}

const helpText = "Commands:\n" +
	"`!add <income|expense|savings> <amount> <category> [cash|banks] [description]`\n" +
	"`!transfer <deposit|withdraw> <amount> [description]`\n" +
	"`!adjust <amount> [description]`\n" +
	"`!summary` `!daily` `!bills` `!pay <name>` `!patrimony` `!sync`"

func (b *Bot) handleAdd(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !add <income|expense|savings> <amount> <category> [cash|banks] [description]")
		return
	}

	kind := storage.TransactionKind(strings.ToLower(args[0]))
	if kind != storage.KindIncome && kind != storage.KindExpense && kind != storage.KindSavings {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid kind: %s. Use: income, expense, savings", args[0]))
		return
	}

	amount, err := decimal.NewFromString(args[1])
	if err != nil || amount.IsNegative() {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid amount: %s", args[1]))
		return
	}

	category := args[2]
	rest := args[3:]
	account := storage.AccountCash
	if len(rest) > 0 {
		switch strings.ToLower(rest[0]) {
		case "cash":
			rest = rest[1:]
		case "banks":
			account = storage.AccountBanks
			rest = rest[1:]
		}
	}

	tx := storage.Transaction{
		Description: strings.Join(rest, " "),
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Date:        time.Now(),
		Account:     account,
	}
	if err := b.store.AddTransaction(&tx); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to save transaction: %v", err))
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Tracked %s: $%s in %s (%s)", kind, amount.StringFixed(2), category, account))
}

func (b *Bot) handleTransfer(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !transfer <deposit|withdraw> <amount> [description]")
		return
	}

	var dir storage.TransferDirection
	switch strings.ToLower(args[0]) {
	case "deposit":
		dir = storage.TransferDeposit
	case "withdraw", "withdrawal":
		dir = storage.TransferWithdrawal
	default:
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid direction: %s. Use: deposit, withdraw", args[0]))
		return
	}

	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid amount: %s", args[1]))
		return
	}

	if _, _, err := b.store.AddTransfer(amount, dir, strings.Join(args[2:], " "), time.Now()); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to record transfer: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Transfer recorded: $%s (%s)", amount.StringFixed(2), dir))
}

func (b *Bot) handleAdjust(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !adjust <amount> [description]")
		return
	}
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid amount: %s", args[0]))
		return
	}
	description := strings.Join(args[1:], " ")
	if description == "" {
		description = "Balance adjustment"
	}
	if _, err := b.store.AddAdjustment(amount, description, time.Now()); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to record adjustment: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Cash balance adjusted by $%s", amount.StringFixed(2)))
}

func (b *Bot) handleSummary(s *discordgo.Session, m *discordgo.MessageCreate) {
	txns, err := b.store.Transactions()
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get transactions: %v", err))
		return
	}

	totals := report.Totals(txns)
	response := "📊 **Summary**\n\n"
	response += fmt.Sprintf("**Income**: $%s\n", totals.TotalIncome.StringFixed(2))
	response += fmt.Sprintf("**Expenses**: $%s\n", totals.TotalExpenses.StringFixed(2))
	response += fmt.Sprintf("**Savings**: $%s\n", totals.TotalSavings.StringFixed(2))
	response += fmt.Sprintf("**Cash**: $%s | **Banks**: $%s\n", totals.CashBalance.StringFixed(2), totals.BanksBalance.StringFixed(2))
	response += fmt.Sprintf("\n**Balance**: $%s", totals.Balance.StringFixed(2))
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleDaily(s *discordgo.Session, m *discordgo.MessageCreate) {
	txns, err := b.store.Transactions()
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get transactions: %v", err))
		return
	}

	groups := report.GroupByDay(txns)
	if len(groups) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No transactions found.")
		return
	}

	limit := 7
	if len(groups) < limit {
		limit = len(groups)
	}

	response := "📅 **Daily activity**\n\n"
	for _, g := range groups[:limit] {
		response += fmt.Sprintf("**%s** — in $%s, out $%s, net $%s (%d transactions)\n",
			g.Date.Format("Jan 2, 2006"),
			g.TotalIncome.StringFixed(2),
			g.TotalExpenses.StringFixed(2),
			g.NetAmount.StringFixed(2),
			len(g.Transactions))
	}
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleBills(s *discordgo.Session, m *discordgo.MessageCreate) {
	expenses, err := b.store.FixedExpenses()
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get fixed expenses: %v", err))
		return
	}

	now := time.Now()
	upcoming := report.Upcoming(expenses, now)
	if len(upcoming) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No bills due in the next 5 days.")
		return
	}

	response := "🔔 **Upcoming bills**\n\n"
	for _, e := range upcoming {
		days := report.DaysUntilDue(e.DueDate, now)
		response += fmt.Sprintf("%s **%s**: $%s — %s\n",
			urgencyIcon(report.UrgencyOf(days)), e.Name, e.Amount.StringFixed(2), dueLabel(days))
	}
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handlePay(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Usage: !pay <name>")
		return
	}
	name := strings.ToLower(strings.Join(args, " "))

	expenses, err := b.store.FixedExpenses()
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get fixed expenses: %v", err))
		return
	}
	for _, e := range expenses {
		if strings.ToLower(e.Name) != name {
			continue
		}
		if err := b.store.MarkPaid(e.ID, time.Now()); err != nil {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to mark as paid: %v", err))
			return
		}
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("✅ **%s** marked as paid ($%s)", e.Name, e.Amount.StringFixed(2)))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No fixed expense named: %s", name))
}

func (b *Bot) handlePatrimony(s *discordgo.Session, m *discordgo.MessageCreate) {
	items, err := b.store.PatrimonyItems()
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get patrimony: %v", err))
		return
	}

	totals := report.PatrimonyTotals(items)
	response := "🏦 **Patrimony**\n\n"
	response += fmt.Sprintf("**Current value**: $%s (%d assets)\n", totals.TotalValue.StringFixed(2), totals.ItemsCount)
	response += fmt.Sprintf("**Variation**: $%s (%s%%)\n", totals.TotalVariation.StringFixed(2), totals.TotalVariationPct.StringFixed(2))

	snapshots, err := b.store.SnapshotsByPeriod(storage.PeriodMonthly, 2)
	if err == nil {
		growth := report.GrowthRate(snapshots)
		response += fmt.Sprintf("**Monthly growth**: $%s (%s%%)\n", growth.GrowthAmount.StringFixed(2), growth.GrowthPercentage.StringFixed(2))
	}

	if stale := report.NeedsUpdate(items, time.Now()); len(stale) > 0 {
		response += fmt.Sprintf("\n⚠️ %d asset(s) not revalued in over 30 days", len(stale))
	}
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleSync(s *discordgo.Session, m *discordgo.MessageCreate) {
	if b.syncer == nil {
		s.ChannelMessageSend(m.ChannelID, "Sync is not configured.")
		return
	}
	merged, err := b.syncer.Sync(context.Background())
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Sync failed: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("☁️ Synced — %d transactions on remote", len(merged)))
}

func urgencyIcon(u report.Urgency) string {
	switch u {
	case report.UrgencyOverdue:
		return "🚨"
	case report.UrgencyDueSoon:
		return "🔔"
	case report.UrgencyDueLater:
		return "🕐"
	default:
		return "•"
	}
}

func dueLabel(days int) string {
	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}

// reminderLoop posts the due-date reminders: upcoming unpaid bills and
// patrimony items whose valuation has gone stale.
func (b *Bot) reminderLoop() {
	ticker := time.NewTicker(reminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.sendReminders()
		}
	}
}

func (b *Bot) sendReminders() {
	now := time.Now()

	expenses, err := b.store.FixedExpenses()
	if err != nil {
		b.log.WithError(err).Error("reminder: failed to load fixed expenses")
	} else if upcoming := report.Upcoming(expenses, now); len(upcoming) > 0 {
		response := "🔔 **Bill reminder**\n\n"
		for _, e := range upcoming {
			days := report.DaysUntilDue(e.DueDate, now)
			response += fmt.Sprintf("%s **%s**: $%s — %s\n",
				urgencyIcon(report.UrgencyOf(days)), e.Name, e.Amount.StringFixed(2), dueLabel(days))
		}
		b.session.ChannelMessageSend(b.channelID, response)
	}

	items, err := b.store.PatrimonyItems()
	if err != nil {
		b.log.WithError(err).Error("reminder: failed to load patrimony")
	} else if stale := report.NeedsUpdate(items, now); len(stale) > 0 {
		b.session.ChannelMessageSend(b.channelID,
			fmt.Sprintf("⚠️ %d patrimony asset(s) have not been revalued in over 30 days. Use the app to update them.", len(stale)))
	}
}

func (b *Bot) startHealthServer() {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b.startTime)
		status := "healthy"

		// Check if Discord connection is alive
		if b.session == nil || b.session.State == nil {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		response := fmt.Sprintf(`{
			"status": "%s",
			"uptime": "%s",
			"discord_connected": %t,
			"timestamp": "%s"
		}`, status, uptime.String(), b.session != nil && b.session.State != nil, time.Now().Format(time.RFC3339))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	})

	http.ListenAndServe(":8080", nil)
}
