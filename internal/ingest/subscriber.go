// Package ingest consumes GPS fixes published by vehicle trackers over
// MQTT and writes them to the track store.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/dkazarov/fleet-reports/internal/model"
	"github.com/dkazarov/fleet-reports/internal/service"
)

func NewClient(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

type trackMessage struct {
	VehicleID int64   `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type TrackSubscriber struct {
	client mqtt.Client
	topic  string
	tracks service.TrackStore
	log    zerolog.Logger
}

func NewTrackSubscriber(client mqtt.Client, topic string, tracks service.TrackStore, log zerolog.Logger) *TrackSubscriber {
	return &TrackSubscriber{client: client, topic: topic, tracks: tracks, log: log}
}

func (s *TrackSubscriber) Start() error {
	token := s.client.Subscribe(s.topic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *TrackSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw trackMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("invalid track message")
		return
	}
	if err := validateTrackMessage(&raw); err != nil {
		s.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("track message rejected")
		return
	}

	point := &model.TrackPoint{
		VehicleID: raw.VehicleID,
		Timestamp: time.Unix(raw.Timestamp, 0).UTC(),
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
	}
	if err := s.tracks.InsertTrackPoint(context.Background(), point); err != nil {
		s.log.Error().Err(err).Int64("vehicle_id", raw.VehicleID).Msg("track point not saved")
	}
}

func validateTrackMessage(msg *trackMessage) error {
	if msg.VehicleID <= 0 {
		return fmt.Errorf("vehicle_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
