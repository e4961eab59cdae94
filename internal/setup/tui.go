// Package setup provides a terminal wizard that produces the pipeline's
// yaml config file.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/VietCodeBug/TelegramBotForex/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// GeneratedConfigFile is where the wizard writes its output.
const GeneratedConfigFile = "config.gen.yaml"

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	d := config.Defaults()

	var (
		exchange        = d.Exchange
		symbol          = d.Symbol
		interval        = d.Interval
		lookbackStr     = strconv.Itoa(d.LookbackPeriods)
		analyzeInterval = d.AnalyzeInterval.String()
		backend         = d.IndicatorBackend
		model           = d.GeminiModel
		listenAddr      = d.WebListenAddr
		confirm         bool
	)

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("GOLD SIGNAL CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up the analysis pipeline step by step.\n"))

	fmt.Println(stepStyle.Render("STEP 1: MARKET DATA"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Kline source").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
				).
				Value(&exchange),
			huh.NewInput().
				Title("Symbol").
				Description("Exchange symbol used as the gold proxy (e.g. PAXGUSDT)").
				Value(&symbol).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("symbol cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Kline interval").
				Options(
					huh.NewOption("15m", "15m"),
					huh.NewOption("1h", "1h"),
					huh.NewOption("4h", "4h"),
				).
				Value(&interval),
			huh.NewInput().
				Title("Lookback periods").
				Description("Candles fetched per analysis, min 50").
				Value(&lookbackStr).
				Validate(validateLookback),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("GOLD SIGNAL CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: ANALYSIS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Analyze interval").
				Description("Pause between runs, e.g. 5m").
				Value(&analyzeInterval).
				Validate(func(s string) error {
					if _, err := time.ParseDuration(s); err != nil {
						return fmt.Errorf("must be a duration like 5m")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Indicator backend").
				Options(
					huh.NewOption("cinar (full indicator set)", "cinar"),
					huh.NewOption("manual (RSI/EMA/ATR only)", "manual"),
				).
				Value(&backend),
			huh.NewInput().
				Title("Gemini model").
				Value(&model),
			huh.NewInput().
				Title("Dashboard listen address").
				Value(&listenAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("GOLD SIGNAL CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Exchange: %s\nSymbol: %s\nInterval: %s\nLookback: %s\nAnalyze every: %s\nBackend: %s\nModel: %s\n",
		exchange, symbol, interval, lookbackStr, analyzeInterval, backend, model,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	lookback, _ := strconv.Atoi(lookbackStr)
	analyzeDur, _ := time.ParseDuration(analyzeInterval)

	cfg := config.Config{
		Exchange:         exchange,
		Symbol:           symbol,
		Interval:         interval,
		LookbackPeriods:  lookback,
		AnalyzeInterval:  analyzeDur,
		IndicatorBackend: backend,
		GeminiModel:      model,
		JournalDir:       d.JournalDir,
		WebListenAddr:    listenAddr,
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(GeneratedConfigFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\n✓ Configuration saved to %s", GeneratedConfigFile)))
	return nil
}

func validateLookback(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be an integer")
	}
	if n < 50 {
		return fmt.Errorf("must be at least 50")
	}
	return nil
}
