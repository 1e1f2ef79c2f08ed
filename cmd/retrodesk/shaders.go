package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/gogpu/retrodesk/render"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// shaderReport is the compile result of one shader.
type shaderReport struct {
	Label string
	Lines int
	Words int
	Err   error
}

func compileShaders() []shaderReport {
	sources := render.ShaderSources()
	labels := make([]string, 0, len(sources))
	for l := range sources {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	reports := make([]shaderReport, 0, len(labels))
	for _, l := range labels {
		src := sources[l]
		r := shaderReport{Label: l, Lines: countLines(src)}
		words, err := render.CompileShaderToSPIRV(src)
		switch {
		case err != nil:
			r.Err = err
		case len(words) == 0 || words[0] != spirvMagic:
			r.Err = fmt.Errorf("bad SPIR-V header")
		default:
			r.Words = len(words)
		}
		reports = append(reports, r)
	}
	return reports
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

func writeShaderReport(w io.Writer, reports []shaderReport) (failed int) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Shader", "WGSL lines", "SPIR-V words", "Status"})
	for _, r := range reports {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
			failed++
		}
		table.Append([]string{r.Label, fmt.Sprintf("%d", r.Lines), fmt.Sprintf("%d", r.Words), status})
	}
	table.Render()
	return failed
}

// Shaders compiles the screen shaders to SPIR-V and creates their modules
// on the noop device.
func Shaders(ctx *cli.Context) error {
	log := setupLogging(ctx)

	if failed := writeShaderReport(os.Stdout, compileShaders()); failed > 0 {
		return fmt.Errorf("%d shader(s) failed to compile", failed)
	}

	dev, err := render.OpenNoop()
	if err != nil {
		return err
	}
	defer dev.Close()
	device, _ := dev.HAL()
	set, err := render.NewShaderSet(device)
	if err != nil {
		return err
	}
	set.Destroy()
	log.Info("shader modules created", "adapter", dev.AdapterInfo().Name)
	return nil
}
