package ui

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Run opens the viewer window and blocks until it is closed
func Run(initial Job) error {
	scenes, err := scene.ListScenes()
	if err != nil {
		return err
	}
	ids := make([]string, len(scenes))
	for i, info := range scenes {
		ids[i] = info.ID
	}

	a := app.New()
	w := a.NewWindow("Weekend Raytracer")

	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(600, 340))

	status := widget.NewLabel("Idle")
	progress := widget.NewProgressBar()

	sceneSelect := widget.NewSelect(ids, nil)
	sceneSelect.SetSelected(initial.Scene)
	widthEntry := intEntry(initial.Width)
	samplesEntry := intEntry(initial.Samples)
	depthEntry := intEntry(initial.Depth)
	seedEntry := intEntry(int(initial.Seed))
	fitCheck := widget.NewCheck("Match window aspect", nil)

	var jobs jobTracker
	var mu sync.Mutex
	var lastFrame *renderer.Frame
	var lastScene string

	renderButton := widget.NewButton("Render", nil)
	cancelButton := widget.NewButton("Cancel", jobs.cancelRunning)
	saveButton := widget.NewButton("Save PNG", func() {
		mu.Lock()
		frame, name := lastFrame, lastScene
		mu.Unlock()
		if frame == nil {
			status.SetText("Nothing to save yet")
			return
		}
		path := filepath.Join("output", name, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
		if err := output.Save(path, frame, output.FormatPNG); err != nil {
			status.SetText(err.Error())
			return
		}
		status.SetText("Saved " + path)
	})

	renderButton.OnTapped = func() {
		job, err := ParseJob(sceneSelect.Selected, widthEntry.Text, samplesEntry.Text, depthEntry.Text, seedEntry.Text)
		if err != nil {
			status.SetText(err.Error())
			return
		}
		if fitCheck.Checked {
			job.AspectRatio = canvasAspect(img.Size())
		}

		ctx, gen, cancelJob := jobs.begin()
		status.SetText("Rendering " + job.Scene + "...")
		progress.SetValue(0)

		go func() {
			defer cancelJob()

			onProgress := func(f float64) {
				if jobs.current(gen) {
					progress.SetValue(f)
				}
			}
			frame, stats, err := job.Render(ctx, renderer.NewDefaultLogger(), onProgress)
			if !jobs.current(gen) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					status.SetText("Cancelled")
				} else {
					status.SetText(err.Error())
				}
				return
			}

			mu.Lock()
			lastFrame, lastScene = frame, job.Scene
			mu.Unlock()

			img.Image = frame.ToRGBA()
			img.Refresh()
			status.SetText(StatusLine(frame, stats))
		}()
	}

	form := container.NewGridWithColumns(2,
		widget.NewLabel("Scene"), sceneSelect,
		widget.NewLabel("Width"), widthEntry,
		widget.NewLabel("Samples"), samplesEntry,
		widget.NewLabel("Depth"), depthEntry,
		widget.NewLabel("Seed"), seedEntry,
	)
	controls := container.NewVBox(form, fitCheck, container.NewHBox(renderButton, cancelButton, saveButton))

	w.SetContent(container.NewBorder(controls, container.NewVBox(progress, status), nil, nil, img))
	w.Resize(fyne.NewSize(800, 600))

	log.Printf("Viewer ready with %d scenes", len(ids))
	w.ShowAndRun()
	return nil
}

// canvasAspect returns the aspect ratio of the image area, or 0 before layout
func canvasAspect(size fyne.Size) float64 {
	if size.Width <= 0 || size.Height <= 0 {
		return 0
	}
	return float64(size.Width) / float64(size.Height)
}

// intEntry creates an entry prefilled with v, or empty for zero
func intEntry(v int) *widget.Entry {
	e := widget.NewEntry()
	if v != 0 {
		e.SetText(strconv.Itoa(v))
	}
	e.SetPlaceHolder("scene default")
	return e
}
