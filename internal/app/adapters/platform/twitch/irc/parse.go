package irc

import "strings"

// Parse turns one protocol line (without CR-LF) into a Message.
//
//	[@tags SPACE] [:prefix SPACE] COMMAND SPACE [params...] [:trailing]
//
// Runs of spaces between segments are skipped. A command token that is not
// followed by a space is rejected with MissingCommand.
func Parse(line string) (*Message, error) {
	msg := &Message{
		Raw:    line,
		Tags:   make(Tags),
		Params: make([]string, 0, 4),
	}

	pos, n := 0, len(line)

	if n > 0 && line[0] == '@' {
		end := strings.IndexByte(line, ' ')
		if end == -1 {
			return nil, &ParseError{Kind: MalformedTags, Line: line}
		}

		parseTags(msg.Tags, line[1:end])
		pos = end + 1
	}

	pos = skipSpaces(line, pos)

	if pos < n && line[pos] == ':' {
		end := indexSpace(line, pos)
		if end == -1 {
			return nil, &ParseError{Kind: MalformedPrefix, Line: line}
		}

		msg.Prefix = line[pos+1 : end]
		pos = skipSpaces(line, end+1)
	}

	end := indexSpace(line, pos)
	if end == -1 {
		return nil, &ParseError{Kind: MissingCommand, Line: line}
	}

	msg.Command = line[pos:end]
	pos = skipSpaces(line, end+1)

	for pos < n {
		if line[pos] == ':' {
			msg.Params = append(msg.Params, line[pos+1:])
			break
		}

		end = indexSpace(line, pos)
		if end == -1 {
			msg.Params = append(msg.Params, line[pos:])
			break
		}

		msg.Params = append(msg.Params, line[pos:end])
		pos = skipSpaces(line, end+1)
	}

	return msg, nil
}

func parseTags(tags Tags, raw string) {
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i < len(raw) && raw[i] != ';' {
			continue
		}

		tag := raw[start:i]
		start = i + 1
		if tag == "" {
			continue
		}

		// only the first '=' separates key and value
		if eq := strings.IndexByte(tag, '='); eq != -1 {
			tags[tag[:eq]] = TagValue{Value: tag[eq+1:]}
		} else {
			tags[tag] = TagValue{Flag: true}
		}
	}
}

func skipSpaces(line string, pos int) int {
	for pos < len(line) && line[pos] == ' ' {
		pos++
	}
	return pos
}

func indexSpace(line string, from int) int {
	if from >= len(line) {
		return -1
	}
	if i := strings.IndexByte(line[from:], ' '); i != -1 {
		return from + i
	}
	return -1
}
