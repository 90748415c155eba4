package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"txt2mp4/internal/app"
	"txt2mp4/internal/audio"
	"txt2mp4/internal/config"
	"txt2mp4/internal/tts"
	"txt2mp4/internal/tts/edge"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	inDir := flag.String("in", "", "input directory (overrides config)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logrus.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *inDir != "" {
		cfg.Input.Dir = *inDir
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// 配置覆盖支持注册表名称（"jenny"）或完整 voice ID
	voices := tts.DefaultRoleVoices()
	for role, voice := range cfg.TTS.Voices {
		voices.Set(tts.NormalizeRole(role), tts.ResolveVoiceID(voice))
	}

	// 独白音色按日期单双数切换；配置未固定时取运行当日
	day := cfg.TTS.NarrationDay
	if day <= 0 {
		day = time.Now().Day()
	}

	engine := edge.NewEngine(edge.Config{
		Rate:   cfg.TTS.Rate,
		Volume: cfg.TTS.Volume,
		Pitch:  cfg.TTS.Pitch,
	})
	defer engine.Close()

	processor := app.NewProcessor(engine, voices, audio.NewConcatenator(cfg.FFmpeg), day)
	runner := &app.Runner{
		Processor: processor,
		InputDir:  cfg.Input.Dir,
		OutputDir: cfg.Output.Dir,
	}

	_, failed, err := runner.Run(context.Background())
	if err != nil {
		logrus.Fatal(err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
