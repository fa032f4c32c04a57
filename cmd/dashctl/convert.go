package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
)

type convertCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Stored dashboard record (JSON or YAML)."`
	Out    string `type:"path" help:"Write the converted record here instead of stdout."`
	Format string `enum:"json,yaml" default:"json" help:"Output format."`
	Strict bool   `help:"Fail when any property could not be converted."`
}

func (cmd *convertCmd) Run(rt *runtime) error {
	logger, err := rt.cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	record, err := readRecord(cmd.Input)
	if err != nil {
		return err
	}
	converted, convErrs := dashboard.ConvertDashboardInfo(record)
	for _, convErr := range convErrs {
		fields := []zap.Field{zap.String("input", cmd.Input), zap.Error(convErr)}
		var typed *dashboard.ConversionError
		if errors.As(convErr, &typed) {
			fields = append(fields, zap.String("key", typed.Key))
		}
		logger.Warn("property left unconverted", fields...)
	}
	if cmd.Strict && len(convErrs) > 0 {
		return fmt.Errorf("dashctl: %d properties could not be converted", len(convErrs))
	}

	var out io.Writer = os.Stdout
	if cmd.Out != "" {
		file, err := os.Create(cmd.Out) //nolint:gosec
		if err != nil {
			return fmt.Errorf("dashctl: create %s: %w", cmd.Out, err)
		}
		defer file.Close()
		out = file
	}
	return writeRecord(out, converted, cmd.Format)
}
