package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"manufacturer-quality/pkg/registry"
)

var registryFile string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry the job workers are built from",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered activities",
	Args:  cobra.NoArgs,
	RunE:  runRegistryList,
}

var registryShowCmd = &cobra.Command{
	Use:   "show <task-type>",
	Short: "Show one activity with its input schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegistryShow,
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a registry file (the embedded registry by default)",
	Args:  cobra.NoArgs,
	RunE:  runRegistryValidate,
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryFile, "file", "", "Registry JSON file (defaults to the embedded registry)")
	registryCmd.AddCommand(registryListCmd, registryShowCmd, registryValidateCmd)
}

func loadRegistry() (*registry.ActivityRegistry, error) {
	if registryFile == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(registryFile)
}

func runRegistryList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), reg, func(tw *tabwriter.Writer) {
		row(tw, "TASK TYPE", "OPERATION", "CATEGORY", "TIMEOUT", "RETRIES", "STATUS")
		for _, a := range reg.Activities {
			row(tw, a.TaskType, a.Operation, a.Category, a.Timeout, a.Retries, a.ImplementationStatus)
		}
	})
}

func runRegistryShow(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	activity, ok := reg.Find(args[0])
	if !ok {
		return fmt.Errorf("no activity registered for task type %q", args[0])
	}

	return render(cmd.OutOrStdout(), activity, func(tw *tabwriter.Writer) {
		row(tw, "ID", activity.ID)
		row(tw, "NAME", activity.DisplayName)
		row(tw, "DESCRIPTION", activity.Description)
		row(tw, "TASK TYPE", activity.TaskType)
		row(tw, "OPERATION", activity.Operation)
		row(tw, "OUTPUT", list(activity.OutputVariables))
		row(tw, "ERROR CODES", list(activity.ErrorCodes))
		row(tw, "TIMEOUT", activity.Timeout)
		row(tw, "RETRIES", activity.Retries)
		row(tw, "TAGS", list(activity.Tags))
	})
}

func runRegistryValidate(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry is invalid: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registry %s is valid (%d activities)\n", reg.Version, len(reg.Activities))
	return nil
}
