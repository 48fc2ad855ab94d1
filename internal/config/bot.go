package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/spend/internal/bot"
	"github.com/Veraticus/spend/internal/common"
	"github.com/spf13/viper"
)

// LoadBotConfig loads Telegram settings. The token falls back to TELEGRAM_BOT_TOKEN.
func LoadBotConfig() (*bot.Config, error) {
	config := bot.DefaultConfig()

	setString(&config.Token, "bot.token")
	fallbackEnv(&config.Token, "TELEGRAM_BOT_TOKEN")
	setInt(&config.PollTimeout, "bot.poll_timeout")
	setInt(&config.RetryAttempts, "bot.retry_attempts")
	if viper.IsSet("bot.retry_delay") {
		config.RetryDelay = viper.GetDuration("bot.retry_delay")
	}

	chats, err := parseChatIDs(viper.GetStringSlice("bot.allowed_chats"))
	if err != nil {
		return nil, err
	}
	config.AllowedChats = chats

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// parseChatIDs accepts ids given as a list or as one comma or space separated string.
func parseChatIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, value := range values {
		for _, field := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid chat id %q", common.ErrInvalidConfig, field)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
