package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/imamik/sagesweep/internal/teardown"
)

// ListOptions holds the flags of the list command.
type ListOptions struct {
	ProjectID  string
	ConfigPath string
	Verbose    bool
	NoColor    bool
}

// List handles the list command. It prints every domain in the region,
// or those whose name ends with the project ID.
func List(ctx context.Context, opts ListOptions) error {
	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	provider, _, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	domains, err := provider.ListDomains(ctx)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}
	newLogger(opts.Verbose).V(1).Info("listed domains", "region", cfg.Region, "count", len(domains))
	if opts.ProjectID != "" {
		domains = teardown.FilterBySuffix(domains, opts.ProjectID)
	}

	if len(domains) == 0 {
		fmt.Fprintf(stdout, "No SageMaker domains found in %s\n", cfg.Region)
		return nil
	}

	t := table.New().Headers("DOMAIN ID", "NAME", "STATUS")
	if !opts.NoColor && colorEnabled() {
		t = t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}
	for _, d := range domains {
		t = t.Row(d.ID, d.Name, d.Status)
	}
	fmt.Fprintln(stdout, t.Render())
	return nil
}
