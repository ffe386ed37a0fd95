package rpcv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
)

func TestCodecRegistered(t *testing.T) {
	t.Parallel()

	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec)
	require.Equal(t, CodecName, codec.Name())

	data, err := codec.Marshal(&GetAlarmRequest{AlarmID: 3, PatientID: 10})
	require.NoError(t, err)
	require.JSONEq(t, `{"alarm_id":3,"patient_id":10}`, string(data))

	var decoded GetAlarmRequest
	require.NoError(t, codec.Unmarshal(data, &decoded))
	require.Equal(t, GetAlarmRequest{AlarmID: 3, PatientID: 10}, decoded)
}

func TestFromDomain(t *testing.T) {
	t.Parallel()

	require.Nil(t, FromDomain(nil))

	created := time.Date(2026, time.March, 2, 7, 0, 0, 0, time.UTC)
	sent := created.Add(time.Hour)

	a := &domain.Alarm{
		ID:                    1,
		PatientID:             10,
		PatientAccountID:      100,
		MedicationReferenceID: 55,
		MedicationName:        "Metformin",
		Dosage:                "500 mg",
		AlarmTime:             domain.TimeOfDay{Hour: 8, Minute: 5},
		IsActive:              true,
		CreatedAt:             created,
		LastNotificationSent:  &sent,
	}

	wire := FromDomain(a)
	require.Equal(t, "08:05", wire.AlarmTime)
	require.Nil(t, wire.UpdatedAt)
	require.Equal(t, sent, *wire.LastNotificationSent)
	require.NotSame(t, a.LastNotificationSent, wire.LastNotificationSent)

	a.UpdatedAt = sent
	require.Equal(t, sent, *FromDomain(a).UpdatedAt)
}
