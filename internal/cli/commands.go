package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaputhra/kitefarm/config"
	"github.com/ekaputhra/kitefarm/internal/agents"
	"github.com/ekaputhra/kitefarm/internal/display"
	"github.com/ekaputhra/kitefarm/internal/scheduler"
	"github.com/ekaputhra/kitefarm/internal/topics"
	"github.com/ekaputhra/kitefarm/internal/wallet"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	var (
		chats    int
		useProxy bool
		once     bool
	)

	rootCmd := &cobra.Command{
		Use:   "kitefarm",
		Short: "KITE FARM - Kite AI testnet routine on autopilot",
		Long: `KITE FARM walks every account in accounts.txt through its daily testnet
routine: agent chats against the shared cap, the daily quiz and a full
stake, claim, unstake rotation. It then waits out the cycle interval and
goes again.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := agents.Validate(); err != nil {
				return err
			}

			display.Banner()
			if !cmd.Flags().Changed("chats") {
				n, err := PromptForChatCount()
				if err != nil {
					return err
				}
				chats = n
			}
			if chats < 1 {
				return fmt.Errorf("chats per agent must be at least 1, got %d", chats)
			}
			if !cmd.Flags().Changed("proxy") {
				use, err := PromptForProxyUse()
				if err != nil {
					return err
				}
				useProxy = use
			}

			s := scheduler.New(cfg, chats, useProxy)
			var err error
			if once {
				_, err = s.Cycle(cmd.Context())
			} else {
				err = s.Run(cmd.Context())
			}
			if errors.Is(err, context.Canceled) {
				display.Info("bye!")
				return nil
			}
			return err
		},
	}

	rootCmd.Flags().IntVar(&chats, "chats", 1, "chat attempts per agent per cycle (prompted when omitted)")
	rootCmd.Flags().BoolVar(&useProxy, "proxy", false, "route accounts through proxies from proxy.txt (prompted when omitted)")
	rootCmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit instead of looping")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("kitefarm v1.0.0")
			fmt.Println("Kite AI testnet routine on autopilot")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect and validate the kitefarm configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and input files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current kitefarm configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Ozone base URL:       %s\n", cfg.OzoneBaseURL)
	fmt.Printf("Neo base URL:         %s\n", cfg.NeoBaseURL)
	fmt.Printf("Chain RPC URL:        %s\n", cfg.ChainRPCURL)
	fmt.Printf("Fallback RPC URL:     %s\n", cfg.FallbackRPCURL)
	fmt.Println()
	fmt.Printf("Accounts file:        %s\n", cfg.AccountsFile)
	fmt.Printf("Proxy file:           %s\n", cfg.ProxyFile)
	fmt.Printf("Topics directory:     %s\n", cfg.TopicsDir)
	fmt.Printf("State file:           %s\n", cfg.StateFile)
	fmt.Println()
	fmt.Printf("Daily chat cap:       %d\n", cfg.DailyChatCap)
	fmt.Printf("Chat delay:           %ds\n", cfg.ChatDelaySec)
	fmt.Printf("Throttle streak:      %d\n", cfg.ThrottleStreak)
	fmt.Printf("Stake minimum:        %v KITE\n", cfg.StakeMin)
	fmt.Printf("Unstake hold:         %dh\n", cfg.UnstakeAfterHours)
	fmt.Printf("Cycle interval:       %dh\n", cfg.CycleIntervalHours)
	fmt.Printf("Request timeout:      %ds\n", cfg.RequestTimeoutSec)
	fmt.Printf("Timezone:             %s\n", cfg.Timezone)
}

// validateConfig validates the configuration and input files
func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating kitefarm configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("🤖 Checking agent roster... ")
	if err := agents.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking account keys... ")
	accounts, err := wallet.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Printf("✅ %d account(s)\n", len(accounts))

	fmt.Print("💬 Checking topic pools... ")
	roster := agents.Roster()
	pools := topics.Load(cfg.TopicsDir, roster)
	loaded := 0
	for _, pool := range pools {
		if len(pool) > 0 {
			loaded++
		}
	}
	fmt.Printf("✅ %d of %d agents have topics\n", loaded, len(roster))

	if proxies := wallet.ReadLines(cfg.ProxyFile); len(proxies) > 0 {
		fmt.Printf("🌐 Proxies available:  %d\n", len(proxies))
	} else {
		fmt.Println("🌐 No proxy file, accounts connect directly")
	}

	fmt.Println()
	fmt.Println("✅ Configuration validation completed successfully!")
	return nil
}
