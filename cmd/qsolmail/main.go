package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pepperpark/qsolmail/internal/config"
	"github.com/pepperpark/qsolmail/internal/mailbox"
	"github.com/pepperpark/qsolmail/internal/reply"
	"github.com/pepperpark/qsolmail/internal/state"
)

var (
	// Set via -ldflags at build time.
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	passPrompt bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "qsolmail",
		Short:        "QSOL-Mail - read and reply to recent mail in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, o)
		},
	}

	var showVersion bool
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Print version and exit")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("qsolmail %s", version)
			if commit != "" {
				fmt.Printf(" (%s)", commit)
			}
			if date != "" {
				fmt.Printf(" built %s", date)
			}
			fmt.Println()
			os.Exit(0)
		}
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "Path to YAML config file")
	pf.String("user", "", "Account username (default $GMAIL_USER)")
	pf.BoolVar(&o.passPrompt, "pass-prompt", false, "Prompt for the account password (no echo)")
	pf.String("imap-host", "imap.gmail.com", "IMAP host")
	pf.Int("imap-port", 993, "IMAP port")
	pf.String("smtp-host", "smtp.gmail.com", "SMTP host")
	pf.Int("smtp-port", 465, "SMTP port")
	pf.Bool("starttls", false, "Use STARTTLS instead of implicit TLS")
	pf.Bool("insecure", false, "Skip TLS verification")
	pf.String("mailbox", mailbox.DefaultMailbox, "Mailbox to read")
	pf.Int("limit", mailbox.DefaultLimit, "Number of recent messages to load")
	pf.String("mbox", "", "Read messages from a local MBOX file instead of IMAP")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("editor", "", "Editor for replies (default $EDITOR, then nano)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the most recent messages and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, o)
		},
	}
	rootCmd.AddCommand(listCmd)
	return rootCmd
}

func loadConfig(cmd *cobra.Command, o *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if o.passPrompt && cfg.Password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		b, perr := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if perr != nil {
			return nil, fmt.Errorf("read password: %w", perr)
		}
		cfg.Password = string(b)
	}
	return cfg, nil
}

// newLogger returns a logger writing to cfg.LogFile, or discarding when no
// file is configured; the terminal belongs to the UI.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

// loadMessages runs the fetch stage: the bounded window from IMAP, or from
// a local mbox file when one is configured.
func loadMessages(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]mailbox.Message, error) {
	logger = logger.With(slog.String("module", "mailbox"))
	if cfg.Mbox != "" {
		f, err := os.Open(cfg.Mbox)
		if err != nil {
			return nil, fmt.Errorf("open mbox: %w", err)
		}
		defer f.Close()
		return mailbox.ReadMbox(f, cfg.Limit)
	}

	tlsConfig := &tls.Config{ServerName: cfg.IMAP.Host, InsecureSkipVerify: cfg.Insecure}
	c, err := mailbox.DialAndLogin(ctx, cfg.IMAP.Host, cfg.IMAP.Port, cfg.User, cfg.Password, cfg.IMAP.StartTLS, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.IMAP.Host, err)
	}
	return mailbox.FetchRecent(ctx, c, mailbox.Options{
		Mailbox: cfg.Mailbox,
		Limit:   cfg.Limit,
		Logger:  logger,
	})
}

func runSession(cmd *cobra.Command, o *rootOptions) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("qsolmail needs an interactive terminal")
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	fmt.Println("Loading messages...")
	msgs, err := loadMessages(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("session started", slog.Int("messages", len(msgs)))

	composer := &reply.Composer{
		Sender: &reply.SMTPSender{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.User,
			Password: cfg.Password,
			StartTLS: cfg.SMTP.StartTLS,
			Insecure: cfg.Insecure,
		},
		From:   cfg.User,
		Editor: cfg.Editor,
		Logger: logger.With(slog.String("module", "reply")),
	}
	return runTUI(ctx, state.New(msgs), composer)
}

func runList(cmd *cobra.Command, o *rootOptions) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	if cfg.Mbox == "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	msgs, err := loadMessages(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(msgs) == 0 {
		fmt.Fprintln(out, state.EmptyText)
		return nil
	}
	for i, m := range msgs {
		fmt.Fprintln(out, state.ListLine(i, m, false))
	}
	return nil
}
