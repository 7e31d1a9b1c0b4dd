package main

import "github.com/spf13/cobra"

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Справочник типов материалов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			types := store.ListTypes(cmd.Context())
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), typesJSON(types))
			}
			return renderTypes(cmd.OutOrStdout(), types)
		},
	}
}
