package capture

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"fishdetector/internal/config"
)

// Selection is what the user picked at the interactive prompt.
type Selection struct {
	Source    string // cam or vid
	NumFrames int
	VideoPath string
}

// Prompt asks on in/out whether to use the camera or one of videos, repeating
// each question until the answer is valid. Choosing video with an empty list
// returns ErrNoVideos.
func Prompt(in io.Reader, out io.Writer, videos []string) (Selection, error) {
	scanner := bufio.NewScanner(in)
	ask := func(question string) (string, error) {
		fmt.Fprint(out, question)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	var sel Selection
	for sel.Source == "" {
		answer, err := ask("Enter 'cam' to use webcam or 'vid' to use video: ")
		if err != nil {
			return Selection{}, err
		}
		switch {
		case strings.HasPrefix(answer, "c"):
			sel.Source = "cam"
		case strings.HasPrefix(answer, "v"):
			sel.Source = "vid"
		default:
			fmt.Fprintln(out, "Invalid input")
		}
	}

	if sel.Source == "cam" {
		question := fmt.Sprintf("Enter the number of frames to take (max %d, min %d): ", config.MaxCameraFrames, config.MinCameraFrames)
		for sel.NumFrames == 0 {
			answer, err := ask(question)
			if err != nil {
				return Selection{}, err
			}
			n, err := strconv.Atoi(answer)
			if err != nil || n < config.MinCameraFrames || n > config.MaxCameraFrames {
				fmt.Fprintln(out, "Invalid input")
				continue
			}
			sel.NumFrames = n
		}
		return sel, nil
	}

	if len(videos) == 0 {
		fmt.Fprintln(out, "No videos found in the current directory: Upload a video and try again or use webcam mode instead!")
		return Selection{}, ErrNoVideos
	}
	for sel.VideoPath == "" {
		fmt.Fprintln(out, "Found the following videos:")
		for i, video := range videos {
			fmt.Fprintf(out, "%d: %s\n", i+1, filepath.Base(video))
		}
		answer, err := ask("Enter the number of the video you want to use: ")
		if err != nil {
			return Selection{}, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(videos) {
			fmt.Fprintln(out, "Invalid input")
			continue
		}
		sel.VideoPath = videos[n-1]
	}
	return sel, nil
}
