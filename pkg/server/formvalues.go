package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
	"github.com/goliatone/go-cvbuilder/pkg/form"
)

// maxRows bounds indexed row keys so a crafted post cannot allocate huge
// slices.
const maxRows = 64

// applyValues copies posted form values onto r. Scalars use their JSON names;
// rows use "collection.index.field" keys ("skills.index" for skills). A
// collection with no posted keys is left untouched. The photo is never
// taken from form values.
func applyValues(r *cv.Record, values url.Values) {
	for _, name := range form.ScalarFieldNames() {
		if _, ok := values[name]; ok {
			form.ApplyField(r, name, values.Get(name))
		}
	}

	rows := collectRows(values)
	if fields, ok := rows["education"]; ok {
		out := make([]cv.Education, len(fields))
		for i, f := range fields {
			out[i] = cv.Education{
				School:      f["school"],
				Degree:      f["degree"],
				Field:       f["field"],
				StartDate:   f["startDate"],
				EndDate:     f["endDate"],
				Description: f["description"],
			}
		}
		r.Education = out
	}
	if fields, ok := rows["experience"]; ok {
		out := make([]cv.Experience, len(fields))
		for i, f := range fields {
			out[i] = cv.Experience{
				Company:     f["company"],
				Position:    f["position"],
				Location:    f["location"],
				StartDate:   f["startDate"],
				EndDate:     f["endDate"],
				Description: f["description"],
			}
		}
		r.Experience = out
	}
	if fields, ok := rows["skills"]; ok {
		out := make([]string, len(fields))
		for i, f := range fields {
			out[i] = f[""]
		}
		r.Skills = out
	}
	if fields, ok := rows["languages"]; ok {
		out := make([]cv.Language, len(fields))
		for i, f := range fields {
			out[i] = cv.Language{Name: f["name"], Level: f["level"]}
		}
		r.Languages = out
	}
}

func collectRows(values url.Values) map[string][]map[string]string {
	rows := make(map[string][]map[string]string)
	for key, vals := range values {
		collection, index, field, ok := splitRowKey(key)
		if !ok {
			continue
		}
		list := rows[collection]
		for len(list) <= index {
			list = append(list, map[string]string{})
		}
		if len(vals) > 0 {
			list[index][field] = vals[0]
		}
		rows[collection] = list
	}
	return rows
}

func splitRowKey(key string) (collection string, index int, field string, ok bool) {
	parts := strings.SplitN(key, ".", 3)
	if len(parts) < 2 {
		return "", 0, "", false
	}
	switch parts[0] {
	case "education", "experience", "languages":
		if len(parts) != 3 {
			return "", 0, "", false
		}
		field = parts[2]
	case "skills":
		if len(parts) != 2 {
			return "", 0, "", false
		}
	default:
		return "", 0, "", false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 || index >= maxRows {
		return "", 0, "", false
	}
	return parts[0], index, field, true
}

// applyRowOp runs an "add:collection" or "remove:collection:index" command
// against the controller.
func applyRowOp(ctrl *form.Controller, op string) error {
	parts := strings.Split(op, ":")
	if len(parts) < 2 {
		return fmt.Errorf("server: malformed row op %q", op)
	}
	switch parts[0] {
	case "add":
		if len(parts) != 2 {
			return fmt.Errorf("server: malformed row op %q", op)
		}
		switch parts[1] {
		case "education":
			return ctrl.AddEducation()
		case "experience":
			return ctrl.AddExperience()
		case "skills":
			return ctrl.AddSkill()
		case "languages":
			return ctrl.AddLanguage()
		}
	case "remove":
		if len(parts) != 3 {
			return fmt.Errorf("server: malformed row op %q", op)
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			return fmt.Errorf("server: malformed row index %q", parts[2])
		}
		switch parts[1] {
		case "education":
			return ctrl.RemoveEducation(index)
		case "experience":
			return ctrl.RemoveExperience(index)
		case "skills":
			return ctrl.RemoveSkill(index)
		case "languages":
			return ctrl.RemoveLanguage(index)
		}
	}
	return fmt.Errorf("server: unknown row op %q", op)
}
