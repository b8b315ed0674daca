package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/oidcrp/oidcrp/pkg/oidcrp"
)

func newDiscoverCmd() *cobra.Command {
	var issuer string

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Fetch and print an OpenID Provider's discovery document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			meta, err := oidcrp.Discover(ctx, http.DefaultClient, issuer)
			if err != nil {
				return err
			}

			return renderDiscoveryTable(meta)
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "issuer URL to discover")
	cmd.MarkFlagRequired("issuer")

	return cmd
}

func renderDiscoveryTable(meta *oidcrp.ProviderMetadata) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader([]string{"Field", "Value"}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.State(1), Top: tw.State(1), Right: tw.State(1), Bottom: tw.State(1)},
		}),
		tablewriter.WithAlignment(tw.MakeAlign(2, tw.AlignLeft)),
	)

	rows := [][]string{
		{"issuer", meta.Issuer},
		{"authorization_endpoint", meta.AuthorizationEndpoint},
		{"token_endpoint", meta.TokenEndpoint},
		{"userinfo_endpoint", meta.UserinfoEndpoint},
		{"jwks_uri", meta.JWKSURI},
		{"registration_endpoint", meta.RegistrationEndpoint},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}
