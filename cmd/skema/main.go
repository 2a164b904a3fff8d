package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reoring/skema"
	"github.com/reoring/skema/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(registry()).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrValidationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func registry() *skema.Registry {
	reg := skema.NewRegistry()
	reg.MustRegister("person", personSchema())
	reg.MustRegister("service-config", serviceConfigSchema())
	return reg
}

func personSchema() *skema.Schema {
	return skema.Object().
		AddProp("name", skema.String().MinLength(1)).
		AddProp("age", skema.Number().Min(0).Optional()).
		Build()
}

func serviceConfigSchema() *skema.Schema {
	tls := skema.Object().
		AddProp("enabled", skema.Boolean().Coerce()).
		AddProp("certFile", skema.String().MinLength(1).Optional()).
		Build()

	return skema.Object().
		AddProp("id", skema.String().UUID().Optional()).
		AddProp("name", skema.String().MinLength(1).MaxLength(63).Regex(`^[a-z][a-z0-9-]*$`)).
		AddProp("host", skema.Union(skema.String().Domain(false), skema.Literal("localhost"))).
		AddProp("port", skema.Number().Coerce().Min(1).Max(65535)).
		AddProp("mode", skema.Union(skema.Literal("dev"), skema.Literal("staging"), skema.Literal("prod"))).
		AddProp("replicas", skema.Number().Min(0).Optional()).
		AddProp("admins", skema.Array(skema.String().Email()).Optional()).
		AddProp("oncall", skema.String().Phone().Optional()).
		AddProp("tls", tls.Optional()).
		AddProp("labels", skema.Any().Optional()).
		Build()
}
