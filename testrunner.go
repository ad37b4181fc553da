package spellwalk

import (
	"encoding/json"
	"fmt"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Key    string  `json:"key,omitempty"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	action Action
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences scripted input and screenshots across frames. Attach
// it to a Scene with SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script. Actions are "hold" and
// "release" (with a "key" naming up, down, left, right or cancel), "press",
// "move", "up" and "click" (x, y in screen pixels), "drag" (fromX, fromY,
// toX, toY, frames), "wait" (frames) and "screenshot" (label).
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("spellwalk: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("spellwalk: parse test script: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "hold", "release":
			a, err := ParseAction(st.Key)
			if err != nil {
				return nil, fmt.Errorf("spellwalk: test script step %d: %w", i, err)
			}
			st.action = a
		case "press", "move", "up", "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("spellwalk: test script step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether every step has run and all queued input drained.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Pointer steps wait for earlier
// pointer events to drain; screenshot is passed the step label.
func (r *TestRunner) step(in *ScriptedInput, screenshot func(label string)) {
	if r.done {
		return
	}
	if in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "hold":
		in.Hold(st.action)
	case "release":
		in.Release(st.action)
	case "press":
		in.Press(st.X, st.Y)
	case "move":
		in.Move(st.X, st.Y)
	case "up":
		in.Up(st.X, st.Y)
	case "click":
		in.Click(st.X, st.Y)
	case "drag":
		in.Drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		screenshot(st.Label)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.done = true
	}
}
