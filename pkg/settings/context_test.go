package settings

import (
	"context"
	"testing"
)

func TestIntoContextFromContext(t *testing.T) {
	tests := []struct {
		name string
		run  *Run
	}{
		{name: "empty", run: &Run{}},
		{name: "with_values", run: &Run{NoColor: true, DryRun: true, OutPath: "out.json", MinLogLevel: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := IntoContext(context.Background(), tt.run)
			if got := FromContext(ctx); got != tt.run {
				t.Errorf("FromContext() = %p, want the stored %p", got, tt.run)
			}
		})
	}
}

func TestFromContextDefaults(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "no_value", ctx: context.Background()},
		{name: "nil_run", ctx: IntoContext(context.Background(), nil)},
		{name: "wrong_type", ctx: context.WithValue(context.Background(), runContextKey{}, "nope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromContext(tt.ctx)
			if got == nil {
				t.Fatal("FromContext() returned nil")
			}
			if *got != *NewCliParams() {
				t.Errorf("FromContext() = %+v, want defaults", got)
			}
		})
	}
}
