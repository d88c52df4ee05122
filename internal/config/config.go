// Package config gathers simulator settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jason-s-yu/uno/internal/bot"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Rules      models.HouseRules
	HumanSeats int // ignored by the bot-only simulator
	Games      int
	Seed       int64 // 0 seeds from the clock
	BotLevels  []bot.Level // cycled over the bot seats
	LogLevel   logrus.Level

	RedisAddr      string
	RedisDB        int
	HistorianQueue string
	Historian      bool
}

// Load reads the environment. Malformed values are reported as models.ErrInvalidConfigInput.
func Load() (Config, error) {
	c := Config{
		Rules:          models.DefaultHouseRules(),
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		HistorianQueue: envOr("HISTORIAN_QUEUE_NAME", cache.DefaultQueueName),
	}

	rules := map[string]interface{}{}
	if v := os.Getenv("UNO_WINNING_SCORE"); v != "" {
		n, err := models.ParseWinningScore(v)
		if err != nil {
			return Config{}, err
		}
		rules["winningScore"] = n
	}
	for env, key := range map[string]string{
		"UNO_STACKING": "allowStackingDrawCards",
		"UNO_JUMP_IN":  "allowJumpIn",
	} {
		if v := os.Getenv(env); v != "" {
			b, err := parseSwitch(env, v)
			if err != nil {
				return Config{}, err
			}
			rules[key] = b
		}
	}
	if err := c.Rules.Update(rules); err != nil {
		return Config{}, err
	}

	var err error
	if c.HumanSeats, err = envInt("UNO_HUMAN_SEATS", 0); err != nil {
		return Config{}, err
	}
	if c.HumanSeats < 0 || c.HumanSeats > models.MaxPlayers {
		return Config{}, fmt.Errorf("%w: UNO_HUMAN_SEATS must be between 0 and %d", models.ErrInvalidConfigInput, models.MaxPlayers)
	}
	if c.Games, err = envInt("UNO_GAMES", 1); err != nil {
		return Config{}, err
	}
	if c.Games < 1 {
		return Config{}, fmt.Errorf("%w: UNO_GAMES must be at least 1", models.ErrInvalidConfigInput)
	}
	seed, err := envInt("UNO_SEED", 0)
	if err != nil {
		return Config{}, err
	}
	c.Seed = int64(seed)
	if c.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	if c.BotLevels, err = parseLevels(os.Getenv("UNO_BOT_LEVEL")); err != nil {
		return Config{}, err
	}
	if c.LogLevel, err = logrus.ParseLevel(envOr("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("%w: LOG_LEVEL: %v", models.ErrInvalidConfigInput, err)
	}
	if v := os.Getenv("UNO_HISTORIAN"); v != "" {
		if c.Historian, err = parseSwitch("UNO_HISTORIAN", v); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", models.ErrInvalidConfigInput, key, v)
	}
	return n, nil
}

// parseLevels reads a comma-separated list of bot levels, e.g. "simple,greedy".
func parseLevels(v string) ([]bot.Level, error) {
	var levels []bot.Level
	for _, part := range strings.Split(v, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l, err := bot.ParseLevel(part)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	if len(levels) == 0 {
		levels = []bot.Level{bot.LevelSimple}
	}
	return levels, nil
}

// parseSwitch accepts on/off and yes/no besides the strconv.ParseBool spellings.
func parseSwitch(key, v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: %s must be on or off, got %q", models.ErrInvalidConfigInput, key, v)
	}
	return b, nil
}
