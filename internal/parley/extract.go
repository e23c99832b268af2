package parley

import "strings"

// extractState is the phase of the marker scan.
type extractState int

const (
	awaitingStart extractState = iota
	awaitingEnd
	extracted
)

// Extract returns the response delimited by this token's markers in a pane
// capture, and whether the markers were found. command is the injected
// request text; its shell echo is stripped from the response.
//
// The scan is an explicit state machine over the capture's lines:
//
//	awaitingStart — skip until a line carries the start marker (the shell's
//	                command echo counts; its marker text is the first
//	                occurrence in the buffer).
//	awaitingEnd   — accumulate lines until one carries the end marker.
//	                Lines carrying either marker are never part of the
//	                response: they are the marker output itself or the
//	                shell's echo of a marker command.
//	extracted     — markers matched; post-process and return.
//
// Matching is per-token, so a stale end marker from an older parley in the
// same scrollback cannot terminate this call's region early.
func Extract(capture, token, command string) (string, bool) {
	start := StartMarker(token)
	end := EndMarker(token)

	state := awaitingStart
	var region []string

	for _, line := range strings.Split(capture, "\n") {
		switch state {
		case awaitingStart:
			if strings.Contains(line, start) {
				state = awaitingEnd
			}
		case awaitingEnd:
			switch {
			case strings.Contains(line, end):
				state = extracted
			case strings.Contains(line, start):
				// The marker's own output line, echoed after the command.
			default:
				region = append(region, line)
			}
		}
		if state == extracted {
			break
		}
	}

	if state != extracted {
		return "", false
	}
	return postProcess(region, command), true
}

// postProcess drops blank lines, any residual echo of a marker command, and
// the shell's echo of the request itself, then joins and trims the
// survivors.
func postProcess(region []string, command string) string {
	var kept []string
	for _, line := range region {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isMarkerEcho(trimmed) {
			continue
		}
		if isCommandEcho(trimmed, command) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// isCommandEcho reports whether a line is the terminal's echo of the
// injected command: the command alone, or the command behind a prompt.
// The prefix must actually look like a prompt; a response line that merely
// ends with the command text ("service status" for command "status") is
// real output and stays.
func isCommandEcho(line, command string) bool {
	if command == "" {
		return false
	}
	if line == command {
		return true
	}
	prefix, ok := strings.CutSuffix(line, command)
	if !ok {
		return false
	}
	prefix = strings.TrimRight(prefix, " ")
	if prefix == "" {
		return false
	}
	switch prefix[len(prefix)-1] {
	case '$', '>', '%', '#':
		return true
	}
	return false
}

// isMarkerEcho reports whether a line is the shell's echo of a marker
// command for any token (prompt prefix and quoting included).
func isMarkerEcho(line string) bool {
	if !strings.Contains(line, "echo") {
		return false
	}
	return strings.Contains(line, startPrefix) || strings.Contains(line, endPrefix)
}
