package lint

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

var (
	utf8ByteOrderMark   = []byte{0xEF, 0xBB, 0xBF}
	codingCookiePattern = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)
)

const (
	utf8EncodingName      = "utf-8"
	codingCookieLineLimit = 2
	newlineByteConstant   = '\n'
)

// readSource loads a Python file honoring its declared source encoding: a
// UTF-8 byte order mark wins, otherwise a PEP 263 coding cookie within the
// first two lines selects the decoder, defaulting to UTF-8.
func readSource(filePath string) ([]byte, error) {
	rawContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, readError
	}

	if bytes.HasPrefix(rawContent, utf8ByteOrderMark) {
		return rawContent[len(utf8ByteOrderMark):], nil
	}

	declaredEncoding := detectCodingCookie(rawContent)
	if len(declaredEncoding) == 0 || strings.EqualFold(declaredEncoding, utf8EncodingName) || strings.EqualFold(declaredEncoding, "utf8") {
		return rawContent, nil
	}

	sourceEncoding, lookupError := ianaindex.IANA.Encoding(declaredEncoding)
	if lookupError != nil || sourceEncoding == nil {
		return rawContent, nil
	}
	decodedContent, decodeError := sourceEncoding.NewDecoder().Bytes(rawContent)
	if decodeError != nil {
		return rawContent, nil
	}
	return decodedContent, nil
}

func detectCodingCookie(rawContent []byte) string {
	remainingContent := rawContent
	for lineIndex := 0; lineIndex < codingCookieLineLimit; lineIndex++ {
		newlineIndex := bytes.IndexByte(remainingContent, newlineByteConstant)
		currentLine := remainingContent
		if newlineIndex >= 0 {
			currentLine = remainingContent[:newlineIndex]
			remainingContent = remainingContent[newlineIndex+1:]
		}
		trimmedLine := strings.TrimSpace(string(currentLine))
		if strings.HasPrefix(trimmedLine, "#") {
			if cookieMatch := codingCookiePattern.FindStringSubmatch(trimmedLine); cookieMatch != nil {
				return cookieMatch[1]
			}
		}
		if newlineIndex < 0 {
			break
		}
	}
	return ""
}
