/*
Package rabbitmq provides a RabbitMQ sink for relayed notifications.
It maps envelopes to AMQP publishings on a topic exchange, includes an auto-reconnect
publisher, and supports optional header propagation via a mediator.HeaderPropagator.
*/
package rabbitmq
