// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/texslides/internal/compile"
	"github.com/pdiddy/texslides/internal/compose"
	"github.com/pdiddy/texslides/internal/reflow"
	"github.com/pdiddy/texslides/internal/secrets"
	"github.com/pdiddy/texslides/internal/title"
	"github.com/pdiddy/texslides/pkg/types"
)

// envReplacer maps nested keys such as deck.max_slides to
// TEXSLIDES_DECK_MAX_SLIDES.
var envReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(types.ProviderNone))
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.user_agent", "texslides/"+version)
	v.SetDefault("ai.max_retries", 5)
	v.SetDefault("ai.call_timeout", 2*time.Minute)

	v.SetDefault("deck.max_slides", compose.DefaultMaxSlides)
	v.SetDefault("deck.bullet_bound", reflow.DefaultBound)
	v.SetDefault("deck.title_max_words", title.DefaultMaxWords)
	v.SetDefault("deck.theme", compose.DefaultTheme)
	v.SetDefault("deck.date", compose.DefaultDate)

	v.SetDefault("compile.engine", compile.DefaultEngine)
	v.SetDefault("compile.runtime", "auto")
	v.SetDefault("compile.image", compile.DefaultImage)
	v.SetDefault("compile.passes", compile.DefaultPasses)

	v.SetDefault("history.dir", ".texslides")
	v.SetDefault("history.disabled", false)
}

// loadConfig reads every section from v. The API key falls back to the
// provider's secrets file.
func loadConfig(v *viper.Viper, loaded map[string]string) types.AppConfig {
	cfg := types.AppConfig{
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("ai.timeout"),
				UserAgent: v.GetString("ai.user_agent"),
			},
			Provider:     types.AIProvider(strings.ToLower(v.GetString("ai.provider"))),
			Model:        v.GetString("ai.model"),
			APIKey:       v.GetString("ai.api_key"),
			BaseURL:      v.GetString("ai.base_url"),
			MaxRetries:   v.GetInt("ai.max_retries"),
			CallTimeout:  v.GetDuration("ai.call_timeout"),
			SystemPrompt: v.GetString("ai.system_prompt"),
		},
		Deck: types.DeckConfig{
			Title:         v.GetString("deck.title"),
			Author:        v.GetString("deck.author"),
			Institute:     v.GetString("deck.institute"),
			Date:          v.GetString("deck.date"),
			MaxSlides:     v.GetInt("deck.max_slides"),
			FigureRoot:    v.GetString("deck.figure_root"),
			BulletBound:   v.GetInt("deck.bullet_bound"),
			TitleMaxWords: v.GetInt("deck.title_max_words"),
			Theme:         v.GetString("deck.theme"),
		},
		Compile: types.CompileConfig{
			Engine:  v.GetString("compile.engine"),
			Runtime: v.GetString("compile.runtime"),
			Image:   v.GetString("compile.image"),
			Passes:  v.GetInt("compile.passes"),
		},
		History: types.HistoryConfig{
			Dir:      v.GetString("history.dir"),
			Disabled: v.GetBool("history.disabled"),
		},
		RulesFile: v.GetString("rules"),
	}
	secrets.ApplyAPIKey(&cfg.AI, loaded)
	return cfg
}
