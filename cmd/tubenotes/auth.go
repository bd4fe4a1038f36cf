package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/brizzai/tubenotes/internal/app"
	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/auth/handlers"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const loginWait = 5 * time.Minute

// cliConfig keeps log lines off stdout so command output stays parseable
func cliConfig(c *config.Config) {
	c.Logging.UseStderr = true
}

func withClient(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, client *auth.Client) error) error {
	cfg, err := loadConfig(cmd, cliConfig)
	if err != nil {
		return err
	}
	var client *auth.Client
	stop, err := app.Populate(cmd.Context(), cfg, &client)
	if err != nil {
		return err
	}
	defer stop()
	return fn(cmd.Context(), cfg, client)
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google in the browser",
		Long: `login listens on the host of oauth.base_url for the OAuth callback, opens the
Google consent page and stores the resulting tokens.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			noBrowser, _ := cmd.Flags().GetBool("no-browser")
			return withClient(cmd, func(ctx context.Context, cfg *config.Config, client *auth.Client) error {
				return login(ctx, cfg, client, noBrowser)
			})
		},
	}
	cmd.Flags().Bool("no-browser", false, "Print the sign-in URL instead of opening a browser")
	return cmd
}

func login(ctx context.Context, cfg *config.Config, client *auth.Client, noBrowser bool) error {
	base, err := url.Parse(cfg.OAuth.BaseURL)
	if err != nil || base.Host == "" {
		return fmt.Errorf("invalid oauth.base_url %q", cfg.OAuth.BaseURL)
	}

	ln, err := net.Listen("tcp", base.Host)
	if err != nil {
		return fmt.Errorf("listen for callback on %s: %w", base.Host, err)
	}

	result := make(chan error, 1)
	h := handlers.NewHandler(client)
	h.OnComplete(func(_ string, err error) {
		select {
		case result <- err:
		default:
		}
	})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL, err := client.AuthorizationURL("")
	if err != nil {
		return err
	}
	if noBrowser {
		pterm.Info.Printfln("Open this URL to sign in:\n%s", authURL)
	} else if err := browser.OpenURL(authURL); err != nil {
		pterm.Warning.Printfln("Could not open a browser, open this URL to sign in:\n%s", authURL)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Waiting for Google sign-in...")
	ctx, cancel := context.WithTimeout(ctx, loginWait)
	defer cancel()

	select {
	case err := <-result:
		if err != nil {
			spinner.Fail("Sign-in failed")
			return err
		}
		spinner.Success("Signed in")
		return nil
	case <-ctx.Done():
		spinner.Fail("Timed out waiting for sign-in")
		return errors.New("sign-in was not completed")
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored Google credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, _ *config.Config, client *auth.Client) error {
				if err := client.Logout(ctx); err != nil {
					return err
				}
				pterm.Success.Println("Signed out")
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a Google account is signed in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, _ *config.Config, client *auth.Client) error {
				status := client.Status(ctx)
				return printResult(cmd, status, func() [][]string {
					expires := "-"
					if status.ExpiresAt != nil {
						expires = status.ExpiresAt.Local().Format(time.RFC1123)
					}
					return [][]string{
						{"Authenticated", "Access token expired", "Expires"},
						{fmt.Sprint(status.Authenticated), fmt.Sprint(status.Expired), expires},
					}
				})
			})
		},
	}
}
