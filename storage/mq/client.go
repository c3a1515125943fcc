package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"RollCall/config"
)

const (
	// 备份事件的拓扑，worker 侧消费同一套
	ExchangeAttendance = "rollcall.attendance"
	QueueBackup        = "attendance.backup"
	RoutingKeyRecorded = "attendance.recorded"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		conn, connErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if connErr != nil {
			return
		}

		ch, err := conn.Channel()
		if err != nil {
			connErr = err
			return
		}
		defer ch.Close()

		connErr = declareTopology(ch)
	})

	return connErr
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeAttendance, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(QueueBackup, true, false, false, false, nil); err != nil {
		return err
	}

	return ch.QueueBind(QueueBackup, RoutingKeyRecorded, ExchangeAttendance, false, nil)
}

func Connection() *amqp.Connection {
	return conn
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	return conn.Close()
}
