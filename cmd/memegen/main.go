package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/memegen"
	"github.com/esimov/memegen/imop"
	"github.com/esimov/memegen/job"
	"github.com/esimov/memegen/utils"
)

const helpBanner = `
┌┬┐┌─┐┌┬┐┌─┐┌─┐┌─┐┌┐┌
│││├┤ │││├┤ │ ┬├┤ │││
┴ ┴└─┘┴ ┴└─┘└─┘└─┘┘└┘

Caption text renderer with live preview.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", pipeName, "Destination image or directory")
	top         = flag.String("top", "", "Top caption, rows separated by '|'")
	bottom      = flag.String("bottom", "", "Bottom caption, rows separated by '|'")
	scale       = flag.Float64("scale", memegen.DefaultScale, "Font scale in pixels per em")
	fill        = flag.String("fill", "#ffffff", "Text fill color")
	outline     = flag.String("outline", "#000000", "Text outline color")
	fontName    = flag.String("font", "bold", "Font: bold, regular or path to a TTF/OTF file")
	blend       = flag.String("blend", "", "Blend mode: darken, lighten, multiply, screen, overlay")
	comp        = flag.String("comp", "", "Composite operator: src_over, src_atop, dst_over, xor...")
	upper       = flag.Bool("upper", false, "Upper-case the captions")
	preview     = flag.Bool("preview", false, "Caption a downscaled preview of the image")
	jobFile     = flag.String("job", "", "YAML or TOML caption job file")
	watch       = flag.Bool("watch", false, "Re-render the preview each time the job file changes")
	saveFile    = flag.String("save", "", "Full resolution output written when a -watch session ends")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		memegen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	j, err := loadJob()
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid caption job: %v", utils.ErrorMessage), err)
	}
	if j.Blend != "" && !imop.IsSupported(j.Blend) {
		log.Fatalf(utils.DecorateText("Unsupported blend mode: %s", utils.ErrorMessage), j.Blend)
	}
	if j.Composite != "" && !imop.IsSupportedOp(j.Composite) {
		log.Fatalf(utils.DecorateText("Unsupported composite operator: %s", utils.ErrorMessage), j.Composite)
	}

	if *watch {
		if *jobFile == "" {
			flag.Usage()
			log.Fatal(utils.DecorateText("\nThe -watch mode requires a -job file!", utils.ErrorMessage))
		}
		if err := runSession(j); err != nil {
			log.Fatalf(utils.DecorateText("Preview session failed: %v", utils.ErrorMessage), err)
		}
		return
	}

	if len(j.Top) == 0 && len(j.Bottom) == 0 {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a top or bottom caption!", utils.ErrorMessage))
	}

	c, err := j.Captioner()
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid caption style: %v", utils.ErrorMessage), err)
	}
	c.Preview = *preview

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ MEMEGEN", utils.StatusMessage),
		utils.DecorateText("⇢ captioning image...", utils.DefaultMessage),
	)
	op := &memegen.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Spinner:  utils.NewSpinner(spinnerText, 80*time.Millisecond, true),
	}

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		op.Spinner.RestoreCursor()
		os.Exit(1)
	}()

	if err := c.Execute(op); err != nil {
		log.Fatalf(
			utils.DecorateText("\nError captioning the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
	}
}

// loadJob builds the caption job from the job file, if any, overridden by the command line flags.
func loadJob() (*job.Job, error) {
	j := &job.Job{}
	if *jobFile != "" {
		var err error
		if j, err = job.Load(*jobFile); err != nil {
			return nil, err
		}
	}
	mergeFlags(j)
	return j, nil
}

// mergeFlags overrides the job with the flags set on the command line and fills
// the fields the job leaves empty with the flag defaults.
func mergeFlags(j *job.Job) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["top"] || len(j.Top) == 0 {
		j.Top = splitCaption(*top)
	}
	if set["bottom"] || len(j.Bottom) == 0 {
		j.Bottom = splitCaption(*bottom)
	}
	if set["scale"] || j.Scale == 0 {
		j.Scale = *scale
	}
	if set["fill"] || j.Fill == "" {
		j.Fill = *fill
	}
	if set["outline"] || j.Outline == "" {
		j.Outline = *outline
	}
	if set["font"] || j.Font == "" {
		j.Font = *fontName
	}
	if set["blend"] {
		j.Blend = *blend
	}
	if set["comp"] {
		j.Composite = *comp
	}
	if set["upper"] {
		j.Upper = *upper
	}
	j.Normalize()
}

// splitCaption turns a flag value into caption lines.
func splitCaption(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// runSession keeps a preview of the source image in sync with the job file until interrupted.
// Every frame is written to the destination; the full resolution image is written to -save on exit.
func runSession(j *job.Job) error {
	if *destination == pipeName {
		return fmt.Errorf("the -watch mode needs a destination file")
	}
	img, err := memegen.LoadImage(*source)
	if err != nil {
		return err
	}
	fs, err := j.Fontspec()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := memegen.NewPreviewService(img, &memegen.ServiceOptions{
		Rasterizer: memegen.NewRasterizer(j.Composite, j.Blend),
	})
	svc.Start()

	spinner := utils.NewSpinner(
		utils.DecorateText("⚡ MEMEGEN ⇢ watching "+*jobFile, utils.StatusMessage),
		120*time.Millisecond, true,
	)
	spinner.Start()
	defer spinner.Stop()

	written := make(chan struct{})
	go func() {
		defer close(written)
		frames := 0
		for frame := range svc.Frames() {
			frames++
			if err := memegen.SaveImage(*destination, frame); err != nil {
				log.Printf(utils.DecorateText("could not write the preview: %v", utils.ErrorMessage), err)
				continue
			}
			spinner.Message(utils.DecorateText(fmt.Sprintf("⚡ MEMEGEN ⇢ %d frames written to %s", frames, *destination), utils.StatusMessage))
		}
	}()

	session := job.NewSession(svc, fs)
	session.Sync(j)

	jobs, errs, err := job.Watch(ctx, *jobFile)
	if err != nil {
		svc.Close()
		<-written
		return err
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case nj, ok := <-jobs:
			if !ok {
				break loop
			}
			mergeFlags(nj)
			session.Sync(nj)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf(utils.DecorateText("\ncould not reload the job: %v", utils.WarningMessage), err)
		}
	}

	saved := make(chan *image.NRGBA, 1)
	if *saveFile != "" {
		svc.Send(memegen.Save{Reply: saved})
	}
	svc.Close()
	<-svc.Done()
	<-written

	if *saveFile != "" {
		select {
		case out := <-saved:
			if err := memegen.SaveImage(*saveFile, out); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s\n", utils.DecorateText(*saveFile, utils.SuccessMessage))
		default:
		}
	}
	return nil
}
