package cli

import (
	"fmt"
	"time"
)

type Step struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

// Issue is a problem attached to one subject, such as a route path.
type Issue struct {
	Subject string
	Message string
	Details []string
}

// Report collects the steps and issues of a build or check run and renders
// a summary: minimal when everything passed, detailed otherwise.
type Report struct {
	out         *Output
	title       string
	noun        string
	steps       []Step
	warnings    []Issue
	errors      []Issue
	startTime   time.Time
	count       int
	outputDir   string
	hasFailures bool
}

// NewReport starts a report; noun names what is counted, e.g. "routes".
func NewReport(out *Output, title, noun, outputDir string) *Report {
	return &Report{
		out:       out,
		title:     title,
		noun:      noun,
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *Report) SetCount(count int) {
	r.count = count
}

func (r *Report) StartStep(name string) int {
	r.steps = append(r.steps, Step{
		Name:      name,
		StartTime: time.Now(),
	})
	return len(r.steps) - 1
}

func (r *Report) EndStep(step int, err error) {
	s := &r.steps[step]
	s.EndTime = time.Now()
	s.Success = err == nil
	if err != nil {
		s.Error = err.Error()
		r.hasFailures = true
	}
}

func (r *Report) AddWarning(subject, message string, details ...string) {
	r.warnings = append(r.warnings, Issue{
		Subject: subject,
		Message: message,
		Details: details,
	})
}

func (r *Report) AddError(subject, message string, details ...string) {
	r.errors = append(r.errors, Issue{
		Subject: subject,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *Report) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *Report) renderMinimal(duration time.Duration) {
	w := r.out.Writer()
	fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"%d %s found\n", r.count, r.noun)

	var failed []string
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.out.Red("✗ ")+step.Name+": "+step.Error)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"%s complete in %s\n", r.title, formatDuration(duration))
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(w, line)
		}
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *Report) renderVerbose(duration time.Duration) {
	w := r.out.Writer()
	errW := r.out.ErrWriter()

	fmt.Fprintf(w, "  %d %s found\n", r.count, r.noun)

	if len(r.steps) > 0 {
		fmt.Fprintln(w)
	}
	for _, step := range r.steps {
		status := r.out.Green("✓")
		if !step.Success {
			status = r.out.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(errW, "  "+r.out.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderIssues(r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  "+r.out.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderIssues(r.warnings)
	}

	fmt.Fprintln(w)
	if r.hasFailures {
		fmt.Fprintf(errW, "  %s\n", r.out.Red(fmt.Sprintf("%s failed after %s", r.title, formatDuration(duration))))
	} else {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"%s complete in %s\n", r.title, formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *Report) renderIssues(issues []Issue) {
	w := r.out.Writer()
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s %s\n", r.out.Red("✗"), issue.Subject)
		fmt.Fprintf(w, "    %s\n", issue.Message)

		for _, detail := range deduplicateStrings(issue.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *Report) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	seen := make(map[string]int)
	var order []string
	for _, item := range items {
		if seen[item] == 0 {
			order = append(order, item)
		}
		seen[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if count := seen[item]; count > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, count))
		} else {
			result = append(result, item)
		}
	}
	return result
}
