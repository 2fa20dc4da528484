package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	return humanize.Comma(balance)
}

// FormatCoins formats an amount followed by the currency name
func FormatCoins(amount int64) string {
	return fmt.Sprintf("%s %s", FormatBalance(amount), CurrencyName)
}

// FormatSignedCoins formats an amount with an explicit sign
func FormatSignedCoins(amount int64) string {
	if amount > 0 {
		return "+" + FormatCoins(amount)
	}
	return FormatCoins(amount)
}

// FormatMultiplier formats a payout multiplier with three decimals
func FormatMultiplier(multiplier float64) string {
	return fmt.Sprintf("x%.3f", multiplier)
}

// FormatPercent formats a fraction as a whole percentage
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}

// FormatMinutesCeil renders a wait as whole minutes, rounded up
// Examples: "1 minute", "45 minutes"
func FormatMinutesCeil(d time.Duration) string {
	minutes := int64((d + time.Minute - 1) / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// FormatHoursMinutes renders a wait as hours and minutes, rounding minutes up
// Examples: "2h 5m", "0h 1m"
func FormatHoursMinutes(d time.Duration) string {
	total := int64((d + time.Minute - 1) / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2d 14h 30m", "3h 45m", "45m", "1m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
