package logger

import (
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"RollCall/config"
)

var (
	Logger *zap.Logger

	fileSink io.Closer
)

// Init 初始化全局 zap logger 并桥接到 hertz 的 hlog。
// 开发环境彩色控制台；其余环境输出 JSON，每条日志固定带上
// service 和 environment 字段，多实例部署时靠它们区分来源。
func Init() {
	level := parseLevel(config.Cfg.LoggerLevel)

	zapOpts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if !consoleMode() {
		zapOpts = append(zapOpts, zap.Fields(
			zap.String("service", config.Cfg.ServiceName),
			zap.String("environment", config.Cfg.Environment),
		))
	}

	hzLogger := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(newEncoder()),
		hertzzap.WithCoreWs(newWriteSyncer()),
		hertzzap.WithCoreLevel(zap.NewAtomicLevelAt(level)),
		hertzzap.WithZapOptions(zapOpts...),
	)
	hlog.SetLogger(hzLogger)
	hlog.SetLevel(toHlogLevel(level))

	Logger = hzLogger.Logger()
	Logger.Info("Logger ready",
		zap.String("level", level.String()),
		zap.String("output", config.Cfg.LoggerOutputPath),
	)
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}

	if fileSink != nil {
		_ = fileSink.Close()
	}
}

// 开发环境或显式 text 格式走控制台编码
func consoleMode() bool {
	return config.Cfg.IsDevelopment() || strings.EqualFold(config.Cfg.LoggerFormat, "text")
}

func newEncoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	if consoleMode() {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}

	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

func newWriteSyncer() zapcore.WriteSyncer {
	path := config.Cfg.LoggerOutputPath
	if path == "" || strings.EqualFold(path, "stdout") {
		return zapcore.AddSync(os.Stdout)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	fileSink = file

	return zapcore.AddSync(file)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toHlogLevel(level zapcore.Level) hlog.Level {
	switch level {
	case zapcore.DebugLevel:
		return hlog.LevelDebug
	case zapcore.InfoLevel:
		return hlog.LevelInfo
	case zapcore.WarnLevel:
		return hlog.LevelWarn
	case zapcore.ErrorLevel:
		return hlog.LevelError
	case zapcore.FatalLevel:
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}
