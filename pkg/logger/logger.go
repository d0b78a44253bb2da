package logger

import (
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"MindBalance/config"
)

var (
	// Logger 在 Init 之前是 no-op，测试与工具代码可以直接使用
	Logger   = zap.NewNop()
	logClose io.Closer
)

// Options 日志输出配置，Init 从 config.Cfg 读取
type Options struct {
	Level      string
	Format     string // json, text
	OutputPath string // stdout, stderr 或文件路径
	Console    bool   // 开发环境强制彩色文本输出
}

func optionsFromConfig() Options {
	return Options{
		Level:      config.Cfg.LoggerLevel,
		Format:     config.Cfg.LoggerFormat,
		OutputPath: config.Cfg.LoggerOutputPath,
		Console:    config.Cfg.IsDevelopment(),
	}
}

// Init 初始化全局 Logger，并把 hertz 内部日志接到同一个 zap core
func Init() {
	opts := optionsFromConfig()

	ws, closer, err := openOutput(opts.OutputPath)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	logClose = closer

	level := zap.NewAtomicLevelAt(parseLevel(opts.Level))
	hzLogger := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(newEncoder(opts)),
		hertzzap.WithCoreWs(ws),
		hertzzap.WithCoreLevel(level),
		hertzzap.WithZapOptions(
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
	)
	hlog.SetLogger(hzLogger)
	hlog.SetLevel(hlogLevels[level.Level()])

	Logger = hzLogger.Logger().With(
		zap.String("service", config.Cfg.ServiceName),
		zap.String("version", config.Cfg.ServiceVersion),
	)
	Logger.Info("Logger initialized",
		zap.String("level", level.Level().CapitalString()),
		zap.String("format", opts.Format),
		zap.String("environment", config.Cfg.Environment),
	)
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
	if logClose != nil {
		_ = logClose.Close()
	}
}

func newEncoder(opts Options) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if opts.Console || strings.EqualFold(opts.Format, "text") {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// openOutput 返回写入目标；文件输出时附带需要在 Sync 时关闭的句柄
func openOutput(path string) (zapcore.WriteSyncer, io.Closer, error) {
	switch strings.ToLower(path) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout), nil, nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return zapcore.AddSync(file), file, nil
}

// parseLevel 未知级别按 INFO 处理
func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	if _, ok := hlogLevels[l]; !ok {
		return zapcore.InfoLevel
	}
	return l
}

var hlogLevels = map[zapcore.Level]hlog.Level{
	zapcore.DebugLevel: hlog.LevelDebug,
	zapcore.InfoLevel:  hlog.LevelInfo,
	zapcore.WarnLevel:  hlog.LevelWarn,
	zapcore.ErrorLevel: hlog.LevelError,
}
