package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oidcrp/oidcrp/pkg/oidcrp"
)

func newAuthURLCmd() *cobra.Command {
	var (
		issuer      string
		clientID    string
		redirectURI string
		scopes      string
	)

	cmd := &cobra.Command{
		Use:   "authurl",
		Short: "Build an authorization URL for a discovered provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			meta, err := oidcrp.Discover(ctx, http.DefaultClient, issuer)
			if err != nil {
				return err
			}

			var scopeList []string
			if scopes != "" {
				scopeList = strings.Split(scopes, ",")
			}

			req := &oidcrp.AuthRequest{
				ResponseTypes: oidcrp.ResponseTypeSet{oidcrp.ResponseTypeCode},
				ClientID:      clientID,
				RedirectURI:   redirectURI,
				Scopes:        scopeList,
			}

			url, err := oidcrp.BuildAuthorizationURL(meta.AuthorizationEndpoint, req)
			if err != nil {
				return err
			}

			fmt.Println(url)
			fmt.Printf("state: %s\n", req.State)
			fmt.Printf("nonce: %s\n", req.Nonce)
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "issuer URL to discover")
	cmd.Flags().StringVar(&clientID, "client-id", "", "client_id to authenticate as")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect_uri to send the provider")
	cmd.Flags().StringVar(&scopes, "scopes", "", "comma-separated scopes in addition to openid")
	cmd.MarkFlagRequired("issuer")
	cmd.MarkFlagRequired("client-id")
	cmd.MarkFlagRequired("redirect-uri")

	return cmd
}
