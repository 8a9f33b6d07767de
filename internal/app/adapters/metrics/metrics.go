package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StateIdle = iota
	StateConnecting
	StateConnected
	StateClosed
)

var (
	// ConnectionState - состояние IRC сессии (0 idle, 1 connecting, 2 connected, 3 closed).
	ConnectionState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "irc_connection_state",
		Help: "Current chat session state (0 idle, 1 connecting, 2 connected, 3 closed)",
	})

	// ConnectAttempts - попытки подключения по результату.
	ConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irc_connect_attempts_total",
			Help: "Connection attempts by result",
		},
		[]string{"result"},
	)

	// Reconnects - автоматические переподключения.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irc_reconnects_total",
		Help: "Reconnects scheduled by the retry policy",
	})

	// MessagesReceived - входящие сообщения по команде.
	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irc_messages_total",
			Help: "Parsed inbound lines per command",
		},
		[]string{"command"},
	)

	// ParseErrors - строки, которые не удалось разобрать.
	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irc_parse_errors_total",
			Help: "Inbound lines rejected by the parser per error kind",
		},
		[]string{"kind"},
	)

	// PongsSent - ответы на PING.
	PongsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irc_pongs_total",
		Help: "PONG replies sent to the server",
	})

	// OverlaysActive - количество окон с чатом.
	OverlaysActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlays_active",
		Help: "Windows currently carrying a chat overlay",
	})

	// OverlayMessages - сообщения, добавленные в оверлеи.
	OverlayMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overlay_messages_total",
		Help: "Chat messages appended to overlay feeds",
	})

	// MessageHandlingTime - время обработки пачки строк от транспорта.
	MessageHandlingTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irc_batch_handling_milliseconds",
			Help:    "Time to parse and dispatch one transport text frame",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)
)
