package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"minivenmo/domain/entities"
	"minivenmo/domain/utils"
	"minivenmo/venmo"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Shell is an interactive prompt over a MiniVenmo ledger
type Shell struct {
	venmo    *venmo.MiniVenmo
	in       io.Reader
	out      io.Writer
	commands map[string]Command
	history  []string
	running  bool
}

// Command represents a shell command
type Command struct {
	Handler     CommandHandler
	Description string
	Usage       string
	MinArgs     int
}

// CommandHandler is a function that handles a shell command
type CommandHandler func(ctx context.Context, s *Shell, args []string) error

// NewShell creates a new shell reading commands from in and writing to out
func NewShell(v *venmo.MiniVenmo, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		venmo:   v,
		in:      in,
		out:     out,
		history: []string{},
		running: true,
	}
	s.initializeCommands()
	return s
}

func (s *Shell) initializeCommands() {
	s.commands = map[string]Command{
		"create": {
			Handler:     handleCreate,
			Description: "Create a user with an initial balance and an optional card",
			Usage:       "create <username> <balance> [card_number]",
			MinArgs:     2,
		},
		"pay": {
			Handler:     handlePay,
			Description: "Pay another user",
			Usage:       "pay <from> <to> <amount> <note...>",
			MinArgs:     3,
		},
		"friend": {
			Handler:     handleFriend,
			Description: "Add a friend",
			Usage:       "friend <username> <friend>",
			MinArgs:     2,
		},
		"card": {
			Handler:     handleCard,
			Description: "Attach a credit card to a user",
			Usage:       "card <username> <card_number>",
			MinArgs:     2,
		},
		"deposit": {
			Handler:     handleDeposit,
			Description: "Add to a user's balance",
			Usage:       "deposit <username> <amount>",
			MinArgs:     2,
		},
		"feed": {
			Handler:     handleFeed,
			Description: "Show a user's feed",
			Usage:       "feed <username>",
			MinArgs:     1,
		},
		"users": {
			Handler:     handleUsers,
			Description: "List users with balances",
			Usage:       "users",
		},
		"history": {
			Handler:     handleHistory,
			Description: "Show commands entered this session",
			Usage:       "history",
		},
		"help": {
			Handler:     handleHelp,
			Description: "Show available commands",
			Usage:       "help",
		},
	}
}

// Run reads commands until exit, end of input or context cancellation
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)

	for s.running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(s.out, "venmo> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		s.history = append(s.history, input)

		parts := strings.Fields(input)
		cmdName, args := parts[0], parts[1:]

		if cmdName == "exit" || cmdName == "quit" {
			s.running = false
			fmt.Fprintln(s.out, "Bye.")
			continue
		}

		cmd, exists := s.commands[cmdName]
		if !exists {
			s.printError(fmt.Errorf("unknown command: %s. Type 'help' for available commands", cmdName))
			continue
		}
		if len(args) < cmd.MinArgs {
			s.printError(fmt.Errorf("usage: %s", cmd.Usage))
			continue
		}

		if err := cmd.Handler(ctx, s, args); err != nil {
			s.printError(err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "Error: %s\n", err.Error())
}

func (s *Shell) printSuccess(msg string) {
	fmt.Fprintf(s.out, "OK: %s\n", msg)
}

func (s *Shell) lookup(ctx context.Context, username string) (*entities.User, error) {
	return s.venmo.GetUser(ctx, username)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

func handleCreate(ctx context.Context, s *Shell, args []string) error {
	balance, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	card := ""
	if len(args) > 2 {
		card = args[2]
	}

	user, err := s.venmo.CreateUser(ctx, args[0], balance, card)
	if err != nil {
		return err
	}
	s.printSuccess(fmt.Sprintf("created %s with %s", user.Username(), utils.FormatMoney(user.Balance())))
	return nil
}

func handlePay(ctx context.Context, s *Shell, args []string) error {
	actor, err := s.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	target, err := s.lookup(ctx, args[1])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	note := strings.Join(args[3:], " ")

	payment, err := s.venmo.Pay(ctx, actor, target, amount, note)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"paymentID": payment.ID(),
		"source":    "shell",
	}).Debug("Payment submitted from shell")
	s.printSuccess(fmt.Sprintf("%s paid %s %s from %s", actor.Username(), target.Username(), utils.FormatMoney(amount), payment.FundingSource()))
	return nil
}

func handleFriend(ctx context.Context, s *Shell, args []string) error {
	user, err := s.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	friend, err := s.lookup(ctx, args[1])
	if err != nil {
		return err
	}

	friends, err := s.venmo.AddFriend(ctx, user, friend)
	if err != nil {
		return err
	}
	names := make([]string, len(friends))
	for i, f := range friends {
		names[i] = f.Username()
	}
	s.printSuccess(fmt.Sprintf("%s's friends: %s", user.Username(), strings.Join(names, ", ")))
	return nil
}

func handleCard(ctx context.Context, s *Shell, args []string) error {
	user, err := s.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	if err := s.venmo.AddCreditCard(ctx, user, args[1]); err != nil {
		return err
	}
	s.printSuccess(fmt.Sprintf("card %s attached to %s", utils.MaskCardNumber(args[1]), user.Username()))
	return nil
}

func handleDeposit(ctx context.Context, s *Shell, args []string) error {
	user, err := s.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	if err := s.venmo.AddToBalance(ctx, user, amount); err != nil {
		return err
	}
	s.printSuccess(fmt.Sprintf("%s balance is now %s", user.Username(), utils.FormatMoney(user.Balance())))
	return nil
}

func handleFeed(ctx context.Context, s *Shell, args []string) error {
	user, err := s.lookup(ctx, args[0])
	if err != nil {
		return err
	}
	lines, err := s.venmo.RenderFeed(user)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "(no activity)")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func handleUsers(ctx context.Context, s *Shell, args []string) error {
	users, err := s.venmo.Users(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(s.out, "(no users)")
		return nil
	}
	for _, u := range users {
		card := "no card"
		if number := u.CreditCardNumber(); number != "" {
			card = utils.MaskCardNumber(number)
		}
		fmt.Fprintf(s.out, "%-15s %12s  %s\n", u.Username(), utils.FormatMoney(u.Balance()), card)
	}
	return nil
}

func handleHistory(ctx context.Context, s *Shell, args []string) error {
	for i, entry := range s.history {
		fmt.Fprintf(s.out, "%3d  %s\n", i+1, entry)
	}
	return nil
}

func handleHelp(ctx context.Context, s *Shell, args []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := s.commands[name]
		fmt.Fprintf(s.out, "  %-40s %s\n", cmd.Usage, cmd.Description)
	}
	fmt.Fprintf(s.out, "  %-40s %s\n", "exit", "Leave the shell")
	return nil
}
