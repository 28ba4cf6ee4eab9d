package tasks

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// setClause accumulates "column = $n" assignments with their arguments.
// Column names come from code, values always travel as arguments.
type setClause struct {
	parts []string
	args  []any
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, column+" = $"+strconv.Itoa(len(s.args)))
}

// placeholder reserves the next argument slot for value.
func (s *setClause) placeholder(value any) string {
	s.args = append(s.args, value)
	return "$" + strconv.Itoa(len(s.args))
}

func (s *setClause) String() string {
	return strings.Join(s.parts, ", ")
}

// buildUpdate renders the UPDATE statement for patch scoped to id and
// ownerID. ok is false when the patch is empty.
func buildUpdate(id, ownerID string, patch models.TaskPatch) (query string, args []any, ok bool) {
	if patch.IsEmpty() {
		return "", nil, false
	}

	set := &setClause{}
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.Completed != nil {
		set.add("completed", *patch.Completed)
	}
	set.parts = append(set.parts, "updated_at = NOW()")

	idArg := set.placeholder(id)
	ownerArg := set.placeholder(ownerID)

	query = `UPDATE tasks SET ` + set.String() +
		` WHERE id = ` + idArg + ` AND user_id = ` + ownerArg +
		` RETURNING ` + taskColumns

	return query, set.args, true
}
