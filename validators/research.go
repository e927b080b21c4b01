package validators

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/janil231/research-repository2/model"
)

var (
	ErrTitleTooShort   = errors.New("title must be at least 5 characters long")
	ErrAuthorsEmpty    = errors.New("at least one author is required")
	ErrAdviserEmpty    = errors.New("adviser is required")
	ErrDepartmentEmpty = errors.New("department is required")
	ErrYearInvalid     = errors.New("invalid year")
	ErrSemesterInvalid = errors.New("invalid semester")
)

// ResearchUpload is the validated form of a paper submission. Authors and
// keywords arrive comma-joined and are split here; Year arrives as a string
// and is coerced.
type ResearchUpload struct {
	Title      string
	Abstract   string
	Authors    []string
	Adviser    string
	Department string
	Year       int
	Semester   string
	Keywords   []string
}

// ResearchValidator checks and coerces the raw upload fields. Nothing is
// written anywhere before this passes.
func ResearchValidator(title, abstract, authors, adviser, department, year, semester, keywords string) (*ResearchUpload, error) {
	title = strings.TrimSpace(title)
	if len(title) < 5 {
		return nil, ErrTitleTooShort
	}

	authorList := splitList(authors)
	if len(authorList) == 0 {
		return nil, ErrAuthorsEmpty
	}

	if strings.TrimSpace(adviser) == "" {
		return nil, ErrAdviserEmpty
	}

	if strings.TrimSpace(department) == "" {
		return nil, ErrDepartmentEmpty
	}

	yearNum, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || yearNum < 1900 || yearNum > time.Now().Year()+1 {
		return nil, ErrYearInvalid
	}

	if !slices.Contains(model.Semesters, semester) {
		return nil, fmt.Errorf("%w, must be one of %s", ErrSemesterInvalid, strings.Join(model.Semesters, ", "))
	}

	return &ResearchUpload{
		Title:      title,
		Abstract:   strings.TrimSpace(abstract),
		Authors:    authorList,
		Adviser:    strings.TrimSpace(adviser),
		Department: strings.TrimSpace(department),
		Year:       yearNum,
		Semester:   semester,
		Keywords:   splitList(keywords),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
