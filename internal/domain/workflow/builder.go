package workflow

import (
	"context"
	"fmt"
	"sort"
)

// GuardFunc decides whether a configured transition may happen
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder collects transitions and builds machines from them
type StateMachineBuilder interface {
	Configure(state State) StateConfiguration
	Build(initialState State) StateMachine
}

// StateConfiguration configures the transitions leaving one state
type StateConfiguration interface {
	Permit(trigger Trigger, toState State) StateConfiguration
	PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration
}

type transition struct {
	toState State
	guard   GuardFunc
}

func (t transition) allowed(ctx context.Context) bool {
	return t.guard == nil || t.guard(ctx)
}

type stateConfig struct {
	transitions map[Trigger][]transition
}

type stateMachineBuilder struct {
	configurations map[State]*stateConfig
}

type stateMachine struct {
	currentState   State
	configurations map[State]*stateConfig
}

// NewBuilder creates an empty builder. Configure and Build panic on unknown states,
// which is a programming error rather than a runtime condition.
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{configurations: make(map[State]*stateConfig)}
}

func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, ok := b.configurations[state]
	if !ok {
		config = &stateConfig{transitions: make(map[Trigger][]transition)}
		b.configurations[state] = config
	}
	return config
}

// Build returns a machine with its own copy of the configured transitions.
func (b *stateMachineBuilder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	configs := make(map[State]*stateConfig, len(b.configurations))
	for state, config := range b.configurations {
		transitions := make(map[Trigger][]transition, len(config.transitions))
		for trigger, ts := range config.transitions {
			transitions[trigger] = append([]transition(nil), ts...)
		}
		configs[state] = &stateConfig{transitions: transitions}
	}

	return &stateMachine{currentState: initialState, configurations: configs}
}

func (c *stateConfig) Permit(trigger Trigger, toState State) StateConfiguration {
	return c.PermitIf(trigger, toState, nil)
}

func (c *stateConfig) PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}

	c.transitions[trigger] = append(c.transitions[trigger], transition{toState: toState, guard: guard})
	return c
}

func (m *stateMachine) State() State {
	return m.currentState
}

func (m *stateMachine) transitions(trigger Trigger) []transition {
	config, ok := m.configurations[m.currentState]
	if !ok {
		return nil
	}
	return config.transitions[trigger]
}

func (m *stateMachine) CanFire(ctx context.Context, trigger Trigger) bool {
	for _, t := range m.transitions(trigger) {
		if t.allowed(ctx) {
			return true
		}
	}
	return false
}

func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	ts := m.transitions(trigger)
	if len(ts) == 0 {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range ts {
		if t.allowed(ctx) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.currentState)
}

func (m *stateMachine) PermittedTriggers(ctx context.Context) []Trigger {
	config, ok := m.configurations[m.currentState]
	if !ok {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(config.transitions))
	for trigger := range config.transitions {
		if m.CanFire(ctx, trigger) {
			triggers = append(triggers, trigger)
		}
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })

	return triggers
}
