package cmd

import (
	"fmt"
	u "net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snag-dl/snag/internal/output"
	"github.com/snag-dl/snag/internal/settings"
	"github.com/snag-dl/snag/internal/transfer"
	"github.com/snag-dl/snag/internal/utils"
)

var (
	outputDir     string
	connections   int
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	urlListFile   string
	settingsFile  string
	debug         bool
)

var SnagVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "snag [URL]",
	Short:   "Snag is a fast multi-connection download manager",
	Version: SnagVersion,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		if len(args) == 0 && urlListFile == "" {
			output.PrintError("No URL or URL list provided")
			os.Exit(1)
		}
		if urlListFile != "" && len(args) > 0 {
			output.PrintError("Cannot specify url argument and --urllist together, choose one")
			os.Exit(1)
		}
		cfg, err := settings.Load(settingsFile)
		if err != nil {
			output.PrintWarning(fmt.Sprintf("Ignoring settings file: %v", err))
		}
		if userAgent == "randomize" {
			userAgent = utils.GetRandomUserAgent()
		}
		// Check if proxy URL contains auth
		parsedProxy, err := u.Parse(proxyURL)
		if err == nil && parsedProxy.User != nil && proxyUsername == "" {
			proxyUsername = parsedProxy.User.Username()
			if password, set := parsedProxy.User.Password(); set {
				proxyPassword = password
			}
			parsedProxy.User = nil
			proxyURL = parsedProxy.String()
		}
		clientConfig := utils.HTTPClientConfig{
			Timeout:       timeout,
			KATimeout:     kaTimeout,
			ProxyURL:      proxyURL,
			ProxyUsername: proxyUsername,
			ProxyPassword: proxyPassword,
			UserAgent:     userAgent,
			Headers:       utils.ParseHeaderArgs(headers),
		}

		var entries []utils.TransferEntry
		if len(args) > 0 {
			if _, err := u.Parse(args[0]); err != nil {
				output.PrintError("Invalid URL format")
				os.Exit(1)
			}
			entries = []utils.TransferEntry{{URL: args[0], OutputDir: outputDir}}
		} else {
			entries, err = utils.ReadTransferList(urlListFile)
			if err != nil {
				output.PrintError(fmt.Sprintf("Failed to read URL list: %v", err))
				os.Exit(1)
			}
			output.PrintInfo(fmt.Sprintf("%s Loaded %d transfer(s) from %s", output.StyleSymbols["info"], len(entries), urlListFile))
		}

		failed := false
		for _, entry := range entries {
			dir := entry.OutputDir
			if dir == "" {
				dir = outputDir
			}
			if dir == "" {
				dir = cfg.OutputDir
			}
			conns := connections
			if conns < 1 {
				conns = cfg.DefaultConnections
			}
			if !runTransfer(entry.URL, dir, conns, cfg, clientConfig) {
				failed = true
			}
		}
		if failed {
			output.PrintError("Encountered failed transfer(s)")
			os.Exit(1)
		}
	},
}

// runTransfer drives a single transfer to its terminal outcome, rendering
// events and cancelling on interrupt so part files never outlive the run.
func runTransfer(link, dir string, conns int, cfg settings.Settings, clientConfig utils.HTTPClientConfig) bool {
	t := transfer.New(
		transfer.Request{URL: link, OutputDir: dir, Connections: conns},
		transfer.Config{Client: clientConfig, MaxConnections: cfg.MaxConnections},
	)
	output.PrintHeader(fmt.Sprintf("%s %s %s", link, output.StyleSymbols["arrow"], t.Destination()))

	rendered := make(chan struct{})
	go func() {
		output.NewRenderer().Consume(t.Events())
		close(rendered)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	stopSig := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			t.Cancel()
		case <-stopSig:
		}
	}()

	t.Start()
	outcome := t.Wait()
	<-rendered
	close(stopSig)
	signal.Stop(sigCh)

	switch outcome.State {
	case transfer.StateCompleted:
		output.PrintSuccess(fmt.Sprintf("Saved %s", t.Destination()))
		return true
	case transfer.StateCancelled:
		output.PrintWarning(fmt.Sprintf("%s Transfer cancelled", output.StyleSymbols["warning"]))
		return false
	default:
		output.PrintError(fmt.Sprintf("%s Transfer failed: %s", output.StyleSymbols["fail"], outcome.Reason))
		return false
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory to save the file in (file name is inferred from the URL)")
	rootCmd.Flags().StringVarP(&urlListFile, "urllist", "l", "", "Path to YAML file containing URLs and output directories")
	rootCmd.Flags().IntVarP(&connections, "connections", "c", 0, "Number of connections per download (settings default when omitted)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", utils.DefaultTimeout, "Connection timeout (eg. 5s, 10m)")
	rootCmd.Flags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	rootCmd.Flags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent ('randomize' picks a browser UA)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.Flags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.Flags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	rootCmd.Flags().StringVar(&settingsFile, "settings", settings.DefaultPath(), "Path to settings file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
