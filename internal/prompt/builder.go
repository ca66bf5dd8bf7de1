// Package prompt constructs structured-extraction prompts for the completion
// service. Construction is pure: no validation, no retries.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/mineworks/paperminer/internal/model"
)

// Build produces the analysis prompt for a mode. The prompt asks the model to
// return a JSON object with exactly the mode's fields, each described by its
// fixed instruction. Field order follows the registry.
func Build(mode model.Mode, text string) (string, error) {
	spec, ok := mode.Spec()
	if !ok {
		return "", eris.Errorf("prompt: unknown mode %q", mode)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following %s text and provide the following information in a JSON format.", spec.Noun)
	if spec.PromptHint != "" {
		b.WriteString(" " + spec.PromptHint)
	}
	b.WriteString("\n\n{\n")
	for i, f := range spec.Fields {
		key, _ := json.Marshal(f.Key)
		instruction, _ := json.Marshal(f.Instruction)
		fmt.Fprintf(&b, "    %s: %s", key, instruction)
		if i < len(spec.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "%s:\n\n%s", spec.PromptLabel, text)

	return b.String(), nil
}
