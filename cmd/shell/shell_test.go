package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"minivenmo/venmo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShell(t *testing.T, script string) (string, *venmo.MiniVenmo) {
	t.Helper()
	v := venmo.New(venmo.Options{})
	var out bytes.Buffer
	s := NewShell(v, strings.NewReader(script), &out)
	require.NoError(t, s.Run(context.Background()))
	return out.String(), v
}

func TestShell_PaymentSession(t *testing.T) {
	script := strings.Join([]string{
		"create Bobby 5.00 4111111111111111",
		"create Carol 10.00 4242424242424242",
		"pay Bobby Carol 5.00 Coffee",
		"pay Carol Bobby $15 Lunch with friends",
		"feed Bobby",
		"exit",
	}, "\n")

	out, v := runShell(t, script)

	assert.Contains(t, out, "OK: created Bobby with $5.00")
	assert.Contains(t, out, "OK: Bobby paid Carol $5.00 from balance")
	assert.Contains(t, out, "OK: Carol paid Bobby $15.00 from card")
	assert.Contains(t, out, "Bobby paid Carol $5.00 for Coffee\n")
	assert.Contains(t, out, "Carol paid Bobby $15.00 for Lunch with friends\n")
	assert.Contains(t, out, "Bye.")

	bobby, err := v.GetUser(context.Background(), "Bobby")
	require.NoError(t, err)
	assert.Equal(t, "15", bobby.Balance().String())
}

func TestShell_ReportsErrors(t *testing.T) {
	script := strings.Join([]string{
		"create ab 1",
		"create Bobby lots",
		"create Bobby 1",
		"pay Bobby Bobby 1 self",
		"pay Bobby Nobody 1 x",
		"card Bobby 1234",
		"pay Bobby",
		"launch rockets",
	}, "\n")

	out, _ := runShell(t, script)

	assert.Contains(t, out, "Error: username error: username not valid")
	assert.Contains(t, out, `Error: invalid amount "lots"`)
	assert.Contains(t, out, "Error: payment error: cannot pay self")
	assert.Contains(t, out, "user not found: Nobody")
	assert.Contains(t, out, "Error: credit card error: invalid card number")
	assert.Contains(t, out, "Error: usage: pay <from> <to> <amount> <note...>")
	assert.Contains(t, out, "Error: unknown command: launch")
}

func TestShell_FriendsDepositAndListing(t *testing.T) {
	script := strings.Join([]string{
		"users",
		"create Bobby 0",
		"create Carol 0",
		"friend Bobby Carol",
		"deposit Bobby 1234.5",
		"card Carol 4242424242424242",
		"users",
		"feed Carol",
		"history",
		"help",
	}, "\n")

	out, _ := runShell(t, script)

	assert.Contains(t, out, "(no users)")
	assert.Contains(t, out, "OK: Bobby's friends: Carol")
	assert.Contains(t, out, "OK: Bobby balance is now $1,234.50")
	assert.Contains(t, out, "OK: card ************4242 attached to Carol")
	assert.Contains(t, out, "no card")
	assert.Contains(t, out, "Bobby added Carol as a friend")
	assert.Contains(t, out, "  1  users")
	assert.Contains(t, out, "deposit <username> <amount>")
}

func TestShell_StopsOnCanceledContext(t *testing.T) {
	v := venmo.New(venmo.Options{})
	var out bytes.Buffer
	s := NewShell(v, strings.NewReader("create Bobby 1\n"), &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, out.String())
}
