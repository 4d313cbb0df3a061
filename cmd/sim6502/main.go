// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/ezrec/sim6502/channel"
	"github.com/ezrec/sim6502/emulator"
)

// observe prints messages from the observer until done is closed, then
// drains whatever is left.
func observe(wg *sync.WaitGroup, ch channel.Channel[emulator.Message], done chan struct{}) {
	defer wg.Done()

	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	show := func() {
		for msg := range ch.Receive() {
			switch msg := msg.(type) {
			case emulator.StateMessage:
				fmt.Printf("%6d %-24v %v\n", msg.Step, cyan(msg.Info()), msg.Registers)
			case emulator.MemoryMessage:
				fmt.Printf("%6d %v\n", msg.Step, faint(fmt.Sprintf("mem $%04x+%d", msg.Base, len(msg.Data))))
			}
		}
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			show()
			return
		case <-ticker.C:
			show()
		}
	}
}

func main() {
	var compile string
	var input string
	var output string
	var steps int
	var capacity int
	var strict bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&input, "i", "", "Raw program image to load at address 0")
	flag.StringVar(&output, "o", "", "Save assembled image, do not execute")
	flag.IntVar(&steps, "n", 1000, "Steps to execute")
	flag.IntVar(&capacity, "q", 0, "Observer queue capacity (0 for unbounded)")
	flag.BoolVar(&strict, "strict", false, "Fail on unknown opcodes")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(input) == 0) {
		log.Fatalf("%v: exactly one of -c or -i is required", os.Args[0])
	}

	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	emu := emulator.NewEmulator(nil)
	emu.Verbose = verbose

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(output) != 0 {
		if len(compile) == 0 {
			log.Fatalf("%v: -o requires -c", os.Args[0])
		}
		err := os.WriteFile(output, emu.Program.Image(0), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()

		emu, err = emulator.Load(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		emu.Verbose = verbose
	}

	emu.Cpu.Strict = strict

	if capacity > 0 {
		ring, err := channel.NewRing[emulator.Message](capacity)
		if err != nil {
			log.Fatalf("-q %v: %v", capacity, err)
		}
		emu.Observer = ring
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go observe(&wg, emu.Observer, done)

	ran, err := emu.Run(steps)

	close(done)
	wg.Wait()

	if err != nil {
		fmt.Printf("%v %v\n", red("halted:"), err)
		os.Exit(1)
	}

	fmt.Printf("%v %d steps, %d cycles\n", green("done:"), ran, emu.Cpu.Clock)
	if ring, ok := emu.Observer.(*channel.Ring[emulator.Message]); ok && ring.Dropped() != 0 {
		fmt.Printf("%v %d observations dropped\n", red("warning:"), ring.Dropped())
	}
}
