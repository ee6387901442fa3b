package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/feed-harvester/internal/adapter/chromedp_browser"
	"github.com/user/feed-harvester/internal/extract"
	"github.com/user/feed-harvester/internal/harvest"
	"github.com/user/feed-harvester/internal/proxy"
	"github.com/user/feed-harvester/internal/usecase"
	"github.com/user/feed-harvester/pkg/logger"
	"github.com/user/feed-harvester/pkg/utils"
)

var harvestFlags struct {
	url         string
	scrolls     int
	output      string
	waitMode    string
	headless    bool
	userDataDir string
	proxies     []string
}

func init() {
	f := harvestCmd.Flags()
	f.StringVar(&harvestFlags.url, "url", "", "Group feed URL to harvest.")
	f.IntVar(&harvestFlags.scrolls, "scrolls", 0, "Scroll steps after the first batch of posts.")
	f.StringVar(&harvestFlags.output, "output", "", "CSV file to write.")
	f.StringVar(&harvestFlags.waitMode, "wait-mode", "", "How to wait for comments: fixed or signal.")
	f.BoolVar(&harvestFlags.headless, "headless", true, "Run Chrome without a window.")
	f.StringVar(&harvestFlags.userDataDir, "user-data-dir", "", "Chrome profile directory holding a logged-in session.")
	f.StringSliceVar(&harvestFlags.proxies, "proxy", nil, "Proxy servers to rotate between runs.")
	_ = harvestCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(harvestCmd)
}

var harvestCmd = &cobra.Command{
	Use:   "harvest --url <group url> [--scrolls N] [--output <file.csv>]",
	Short: "Scrolls a group feed, captures its query responses and writes posts and comments to CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		groupURL, err := utils.NormalizeGroupURL(harvestFlags.url)
		if err != nil {
			return err
		}

		opts := cfg.HarvestOptions()
		flags := cmd.Flags()
		if flags.Changed("scrolls") {
			opts.Scrolls = harvestFlags.scrolls
		}
		if harvestFlags.waitMode != "" {
			opts.WaitMode = harvest.WaitMode(harvestFlags.waitMode)
		}
		output := cfg.HarvestOutput
		if harvestFlags.output != "" {
			output = harvestFlags.output
		}
		headless := cfg.ChromeHeadless
		if flags.Changed("headless") {
			headless = harvestFlags.headless
		}
		userDataDir := cfg.ChromeUserDataDir
		if harvestFlags.userDataDir != "" {
			userDataDir = harvestFlags.userDataDir
		}
		proxies := cfg.ProxyURLs
		if len(harvestFlags.proxies) > 0 {
			proxies = harvestFlags.proxies
		}

		browserLog, err := logger.NewBrowserLogger(logger.ParseLevel(cfg.LogLevel))
		if err != nil {
			return fmt.Errorf("failed to create browser logger: %w", err)
		}
		defer browserLog.Sync()

		browser := chromedp_browser.NewBrowser(chromedp_browser.Config{
			Headless:    headless,
			UserDataDir: userDataDir,
		}, proxy.NewManager(proxies, nil), browserLog)
		harvester := usecase.NewHarvestUseCase(browser, cfg.HarvestQueryEndpoint, extract.DefaultSchema, nil)

		slog.Info("Harvesting group", "url", groupURL, "scrolls", opts.Scrolls, "output", output)
		start := time.Now()
		res, err := harvester.Harvest(cmd.Context(), usecase.HarvestRequest{
			GroupURL:   groupURL,
			Options:    opts,
			OutputPath: output,
		})
		if res != nil {
			slog.Info("Harvest finished",
				"posts", res.Posts,
				"comments", res.Comments,
				"records", len(res.Records),
				"seconds", time.Since(start).Seconds(),
			)
		}
		return err
	},
}
