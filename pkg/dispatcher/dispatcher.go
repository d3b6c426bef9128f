// Package dispatcher provides the stateful orchestration core of the
// bridge: it interprets control operations, delegates rule selection to
// the matcher, resolves command templates and hands the result to a
// Launcher. It is the only component with memory across requests.
package dispatcher

import (
	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/arthur-debert/testpilot/pkg/request"
	"github.com/arthur-debert/testpilot/pkg/rules"
	"github.com/arthur-debert/testpilot/pkg/template"
	"github.com/arthur-debert/testpilot/pkg/ui"
	"github.com/rs/zerolog"
)

// Launcher runs a fully resolved shell command, streaming its output to
// the terminal. Implementations must not block until the command
// finishes; the dispatcher stays available while commands run.
type Launcher interface {
	Launch(command string) error
}

// Dispatcher owns the two pieces of process-lifetime state: the active
// action set and the last match request. It is driven by a single
// request-handling goroutine and therefore needs no locking.
type Dispatcher struct {
	config     rules.Configuration
	active     int
	lastFields map[string]string

	matcher  *rules.Matcher
	launcher Launcher
	notifier *ui.Notifier
	logger   zerolog.Logger
}

// New creates a dispatcher over a validated configuration. The first
// action set starts active; there is no previous request.
func New(config rules.Configuration, launcher Launcher, notifier *ui.Notifier) *Dispatcher {
	return &Dispatcher{
		config:   config,
		matcher:  rules.NewMatcher(),
		launcher: launcher,
		notifier: notifier,
		logger:   logging.GetLogger("dispatcher"),
	}
}

// ActiveSet returns the currently active action set
func (d *Dispatcher) ActiveSet() rules.ActionSet {
	return d.config.ActionSets[d.active]
}

// Handle processes one inbound request. Every error is recoverable: it
// is reported to the operator and the dispatcher stays ready for the
// next request. The returned error mirrors what was reported, for tests
// and callers that want to inspect it.
func (d *Dispatcher) Handle(req request.Request) error {
	// clear any escape-sequence pollution a previous command left behind
	d.notifier.ResetTerminal()

	var err error
	switch req.Kind {
	case request.KindSwitchSet:
		err = d.switchSet(req.SetID)
	case request.KindRepeatLast:
		err = d.repeatLast()
	default:
		err = d.runMatch(req.Fields, true)
	}

	if err != nil {
		d.logger.Warn().Err(err).Str("request", req.String()).Msg("request not dispatched")
		d.notifier.Error(err)
	}
	return err
}

// switchSet activates the action set identified by a 1-based index or a
// name. On failure the active set is left unchanged. Switching does not
// clear the last request: a repeat after a switch re-evaluates the old
// request against the new rules.
func (d *Dispatcher) switchSet(id request.ActionSetID) error {
	if index, ok := id.Index(); ok {
		if index < 1 || index > len(d.config.ActionSets) {
			return errors.Newf(errors.ErrUnknownActionSet, "action set %d does not exist", index)
		}
		d.active = index - 1
	} else {
		name, _ := id.Name()
		found := false
		for i, set := range d.config.ActionSets {
			if set.Name == name {
				d.active = i
				found = true
				break
			}
		}
		if !found {
			return errors.Newf(errors.ErrUnknownActionSet, "action set %q does not exist", name)
		}
	}

	set := d.ActiveSet()
	d.logger.Info().Str("actionSet", set.Name).Msg("switched action set")
	d.notifier.Info("activated action set " + set.Name)
	return nil
}

// repeatLast re-resolves the remembered request against the currently
// active action set, which may differ from the set it originally ran in
func (d *Dispatcher) repeatLast() error {
	if d.lastFields == nil {
		return errors.New(errors.ErrNoPreviousRun, "no previous test run")
	}
	return d.runMatch(d.lastFields, false)
}

func (d *Dispatcher) runMatch(fields map[string]string, remember bool) error {
	set := d.ActiveSet()
	rule, ok := d.matcher.BestMatch(fields, set)
	if !ok {
		return errors.Newf(errors.ErrNoMatchingRule,
			"no matching action found for %v in action set %q", fields, set.Name)
	}

	if remember {
		if fields == nil {
			// an empty request is still a remembered request
			fields = map[string]string{}
		}
		d.lastFields = fields
	}

	command, err := template.Resolve(rule.Template, fields)
	if err != nil {
		return err
	}

	d.notifier.Command(command)
	d.logger.Info().Str("command", command).Str("actionSet", set.Name).Msg("launching command")

	if err := d.launcher.Launch(command); err != nil {
		return errors.Wrapf(err, errors.ErrLaunchFailed, "cannot launch %q", command)
	}
	return nil
}

// SetConfiguration swaps in a new configuration, e.g. after the config
// file changed on disk. The active set is carried over by name when it
// still exists, otherwise the first set becomes active. The last request
// is kept either way.
func (d *Dispatcher) SetConfiguration(config rules.Configuration) {
	activeName := d.ActiveSet().Name
	d.config = config
	d.active = 0
	for i, set := range config.ActionSets {
		if set.Name == activeName {
			d.active = i
			break
		}
	}
	d.logger.Info().Str("actionSet", d.ActiveSet().Name).Msg("configuration replaced")
}
