package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/oidcrp/oidcrp/pkg/oidcrp"
)

func newRegisterCmd() *cobra.Command {
	var (
		issuer             string
		redirectURI        string
		clientName         string
		initialAccessToken string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Dynamically register a client with a discovered provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			meta, err := oidcrp.Discover(ctx, http.DefaultClient, issuer)
			if err != nil {
				return err
			}
			if meta.RegistrationEndpoint == "" {
				return fmt.Errorf("provider %s does not advertise a registration_endpoint", issuer)
			}

			metadata := oidcrp.ClientMetadata{
				RedirectURIs:  []string{redirectURI},
				ResponseTypes: oidcrp.ResponseTypeSet{oidcrp.ResponseTypeCode},
				GrantTypes:    []oidcrp.GrantType{oidcrp.GrantTypeAuthorizationCode},
			}
			if clientName != "" {
				metadata.ClientName = map[oidcrp.LanguageTag]string{"": clientName}
			}

			resp, err := oidcrp.Register(ctx, http.DefaultClient, meta.RegistrationEndpoint, metadata, initialAccessToken)
			if err != nil {
				return err
			}

			fmt.Printf("client_id:     %s\n", resp.ClientID)
			fmt.Printf("client_secret: %s\n", resp.ClientSecret)
			if resp.ClientSecretExpiresAt != 0 {
				fmt.Printf("secret_expires_at: %d\n", resp.ClientSecretExpiresAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "issuer URL to discover")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect_uri to register")
	cmd.Flags().StringVar(&clientName, "client-name", "", "client_name to register")
	cmd.Flags().StringVar(&initialAccessToken, "initial-access-token", "", "bearer token authorizing registration, if required")
	cmd.MarkFlagRequired("issuer")
	cmd.MarkFlagRequired("redirect-uri")

	return cmd
}
