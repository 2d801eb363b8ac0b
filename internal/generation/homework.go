package generation

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/goat/internal/llm"
)

// MaxImageBytes caps the size of a homework photo.
const MaxImageBytes = 20 << 20

// ErrUnsupportedImage is returned for files that are not PNG, JPEG, WebP or GIF.
var ErrUnsupportedImage = errors.New("unsupported image type")

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// Homework is the learner's input: typed text, a photographed page, or both.
type Homework struct {
	Text  string
	Image *llm.Image

	// ImageName is the file name the image was read from, for display.
	ImageName string
}

// Empty reports whether there is nothing to send.
func (h Homework) Empty() bool {
	return strings.TrimSpace(h.Text) == "" && (h.Image == nil || len(h.Image.Data) == 0)
}

// InputType is "image" when a photo is attached and "text" otherwise.
func (h Homework) InputType() string {
	if h.Image != nil {
		return "image"
	}
	return "text"
}

func (h Homework) message(prompt string) llm.Message {
	msg := llm.Message{Role: llm.RoleUser, Content: prompt}
	if h.Image != nil {
		msg.Images = []llm.Image{*h.Image}
	}
	return msg
}

// LoadImage reads an image file and detects its MIME type from its content.
func LoadImage(path string) (*llm.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("%s: image larger than %d MB", filepath.Base(path), MaxImageBytes>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mime := http.DetectContentType(data)
	if !imageTypes[mime] {
		return nil, fmt.Errorf("%s (%s): %w", filepath.Base(path), mime, ErrUnsupportedImage)
	}
	return &llm.Image{MIMEType: mime, Data: data}, nil
}

// ParseInput turns a line typed on the home screen into Homework. A leading
// "@path" attaches that image; any remaining text goes along with it.
func ParseInput(line string) (Homework, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "@") {
		return Homework{Text: line}, nil
	}

	path, rest, _ := strings.Cut(line[1:], " ")
	if path == "" {
		return Homework{Text: line}, nil
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	img, err := LoadImage(path)
	if err != nil {
		return Homework{}, err
	}
	return Homework{Text: strings.TrimSpace(rest), Image: img, ImageName: filepath.Base(path)}, nil
}
