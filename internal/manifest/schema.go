package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schemaSource constrains the manifest layout accepted by the sampler.
// Structs stay open so unrelated snapshot settings pass through.
const schemaSource = `
#Target: number & >=1 | =~"^[+]?[0-9]+$"

#Owner: string & !="" | int

#Entry: {
	repo?: {
		owner: #Owner
		name:  #Owner
		...
	}
	owner?:                   #Owner
	org?:                     #Owner
	repo_owner?:              #Owner
	name?:                    #Owner
	repo_name?:               #Owner
	slug?:                    string & !=""
	repo_slug?:               string & !=""
	target_label_min?:        #Target
	labels_target_per_class?: #Target
	...
}

repos: [...#Entry]
target_label_min?:        #Target
labels_target_per_class?: #Target
`

// Check validates a manifest against the sampler schema. Beyond the
// schema it requires at least one entry, every entry to resolve a slug,
// and slugs to be unique.
func Check(doc *Document) error {
	if len(doc.Repos) == 0 {
		return errors.New("repos: at least one repository entry is required")
	}
	if err := validateSchema(doc.Fields); err != nil {
		return err
	}

	var problems []string
	for i, entry := range doc.Repos {
		if _, ok := Slug(entry); !ok {
			problems = append(problems, fmt.Sprintf("repos[%d]: no slug (accepted shapes: %s)", i, shapeNames()))
		}
	}
	for _, dup := range doc.Duplicates() {
		problems = append(problems, fmt.Sprintf("duplicate slug %s", dup))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func validateSchema(fields map[string]any) error {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(schemaSource)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("invalid manifest schema: %w", err)
	}

	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("serialize manifest: %w", err)
	}

	dataVal := ctx.CompileBytes(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("compile manifest: %w", err)
	}

	merged := schemaVal.Unify(dataVal)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}
	return nil
}
