package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-api-session-client/dispatcher"
	"github.com/deploymenttheory/go-api-session-client/httpclient"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestFlags struct {
	configPath string
	method     string
	data       string
	headers    []string
	token      string
}

func requestCmd() *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "request <endpoint>",
		Short: "Send one request, refreshing the session if the credential has expired",
		Long: `Send one request to <endpoint>, resolved against the configured base URL.

Configuration is read from --config (YAML or JSON) or, when omitted, from APISESSION_*
environment variables. The response status line goes to stderr and the body to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML or JSON client configuration file")
	cmd.Flags().StringVarP(&flags.method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&flags.data, "data", "d", "", "Request body, sent as JSON")
	cmd.Flags().StringArrayVarP(&flags.headers, "header", "H", nil, "Extra header as name=value (repeatable)")
	cmd.Flags().StringVar(&flags.token, "token", "", "Access token to start the session with")

	return cmd
}

func runRequest(cmd *cobra.Command, endpoint string, flags *requestFlags) error {
	config, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.token != "" {
		config.InitialCredential = flags.token
	}

	opts, err := buildRequestOptions(flags)
	if err != nil {
		return err
	}

	httpclient.SetDefaultValuesClientConfig(config)
	config.Logger = stderrLogger(config.LogLevel, cmd.ErrOrStderr())

	client, err := httpclient.BuildClient(*config, true)
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.Do(cmd.Context(), endpoint, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", resp.Proto, resp.Status)
	if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// stderrLogger keeps log output off stdout, which carries the response body.
func stderrLogger(level string, w io.Writer) logger.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return logger.NewLogger(zap.New(core), logger.ParseLogLevelFromString(level))
}

func loadConfig(path string) (*httpclient.ClientConfig, error) {
	if path != "" {
		return httpclient.LoadConfigFromFile(path)
	}
	return httpclient.LoadConfigFromEnv()
}

func buildRequestOptions(flags *requestFlags) (*dispatcher.RequestOptions, error) {
	opts := &dispatcher.RequestOptions{Method: flags.method}

	if len(flags.headers) > 0 {
		opts.Headers = make(map[string]string, len(flags.headers))
		for _, h := range flags.headers {
			name, value, ok := strings.Cut(h, "=")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q, expected name=value", h)
			}
			opts.Headers[strings.TrimSpace(name)] = value
		}
	}

	if flags.data != "" {
		if !json.Valid([]byte(flags.data)) {
			return nil, errors.New("--data must be valid JSON")
		}
		opts.Body = json.RawMessage(flags.data)
	}

	return opts, nil
}
