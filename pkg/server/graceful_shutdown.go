package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// GracefulShutdown обеспечивает корректное завершение работы сервера
type GracefulShutdown struct {
	logger         *zap.Logger
	timeout        time.Duration
	mu             sync.Mutex
	shutdownFuncs  []shutdownFunc
	shutdownSignal chan os.Signal
	done           chan struct{}
	once           sync.Once
}

// NewGracefulShutdown создает GracefulShutdown, подписанный на SIGINT и SIGTERM
func NewGracefulShutdown(logger *zap.Logger, timeout time.Duration) *GracefulShutdown {
	gs := &GracefulShutdown{
		logger:         logger,
		timeout:        timeout,
		shutdownSignal: make(chan os.Signal, 1),
		done:           make(chan struct{}),
	}

	signal.Notify(gs.shutdownSignal, syscall.SIGINT, syscall.SIGTERM)

	return gs
}

// AddShutdownFunc регистрирует функцию завершения; функции выполняются в обратном порядке
func (gs *GracefulShutdown) AddShutdownFunc(name string, f func(context.Context) error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.shutdownFuncs = append(gs.shutdownFuncs, shutdownFunc{name: name, fn: f})
}

// Wait блокирует выполнение до получения сигнала завершения или отмены контекста
func (gs *GracefulShutdown) Wait(ctx context.Context) {
	select {
	case sig := <-gs.shutdownSignal:
		gs.logger.Info("Получен сигнал завершения", zap.String("signal", sig.String()))
	case <-ctx.Done():
		gs.logger.Info("Контекст отменен, начинаем завершение")
	}

	gs.once.Do(func() {
		signal.Stop(gs.shutdownSignal)
		gs.shutdown()
		close(gs.done)
	})
}

// Done возвращает канал, который закрывается после завершения всех операций
func (gs *GracefulShutdown) Done() <-chan struct{} {
	return gs.done
}

// Shutdown инициирует завершение работы и ждет его окончания
func (gs *GracefulShutdown) Shutdown() {
	select {
	case gs.shutdownSignal <- syscall.SIGTERM:
	default:
	}
	<-gs.done
}

func (gs *GracefulShutdown) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), gs.timeout)
	defer cancel()

	gs.mu.Lock()
	funcs := make([]shutdownFunc, len(gs.shutdownFuncs))
	copy(funcs, gs.shutdownFuncs)
	gs.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i].fn(ctx); err != nil {
			gs.logger.Error("Ошибка при завершении", zap.String("component", funcs[i].name), zap.Error(err))
			continue
		}
		gs.logger.Debug("Компонент остановлен", zap.String("component", funcs[i].name))
	}

	gs.logger.Info("Graceful shutdown completed")
}
