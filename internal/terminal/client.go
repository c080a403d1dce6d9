// Package terminal runs the forecast client in an interactive terminal.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nimbus/client/internal/domain"
	"github.com/nimbus/client/internal/render"
	"github.com/nimbus/client/internal/service"
)

// Client drives one coordinator through prompts
type Client struct {
	driver      PromptDriver
	coordinator *service.Coordinator
	out         io.Writer
	loc         *time.Location
}

// NewClient creates a terminal client writing results to out
func NewClient(driver PromptDriver, coordinator *service.Coordinator, out io.Writer, loc *time.Location) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		driver:      driver,
		coordinator: coordinator,
		out:         out,
		loc:         loc,
	}
}

// Run shows the welcome gate, then asks for forecasts until the user stops
func (cl *Client) Run(ctx context.Context) error {
	if cl.coordinator.View() == domain.ViewWelcome {
		entered, err := cl.welcome(ctx)
		if err != nil || !entered {
			return err
		}
	}

	for {
		if err := cl.forecast(ctx); err != nil {
			return err
		}

		again, err := cl.driver.Confirm(ctx, ConfirmConfig{Message: "Get another forecast?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (cl *Client) welcome(ctx context.Context) (bool, error) {
	view := render.NewWelcomeView("")
	fmt.Fprintf(cl.out, "%s\n%s\n\n", view.Title, view.Tagline)

	ok, err := cl.driver.Confirm(ctx, ConfirmConfig{Message: view.EnterLabel + "?", Default: true})
	if err != nil || !ok {
		return false, err
	}
	cl.coordinator.Enter()
	return true, nil
}

func (cl *Client) forecast(ctx context.Context) error {
	ctrl := cl.coordinator.Controller()

	for {
		input := ctrl.Input()

		city, err := cl.driver.Input(ctx, InputConfig{
			Message:   "Enter a City",
			Default:   input.Location,
			Help:      "e.g., Delhi, Kolkata...",
			Validator: requireText,
		})
		if err != nil {
			return err
		}
		if err := ctrl.UpdateField("location", city); err != nil {
			return err
		}

		idx, err := cl.driver.Select(ctx, SelectConfig{
			Message:      "What are you planning?",
			Options:      activityLabels(),
			DefaultIndex: activityIndex(input.Activity),
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(domain.Activities) {
			if err := ctrl.UpdateField("activity", string(domain.Activities[idx])); err != nil {
				return err
			}
		}

		sub, err := ctrl.Submit(ctx)
		if err != nil {
			var perr *domain.PredictionError
			if errors.As(err, &perr) && perr.Kind == domain.FailureValidation {
				fmt.Fprintf(cl.out, "! %s\n", perr.Message)
				continue
			}
			return err
		}

		fmt.Fprintln(cl.out, render.LoadingText)
		if err := sub.Wait(ctx); err != nil {
			return err
		}

		fmt.Fprintln(cl.out)
		return render.WriteText(cl.out, render.BuildResultView(ctrl.State(), cl.loc))
	}
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("please enter a location")
	}
	return nil
}

func activityLabels() []string {
	labels := make([]string, len(domain.Activities))
	for i, a := range domain.Activities {
		labels[i] = a.Label()
	}
	return labels
}

func activityIndex(activity domain.Activity) int {
	for i, a := range domain.Activities {
		if a == activity {
			return i
		}
	}
	return 0
}
