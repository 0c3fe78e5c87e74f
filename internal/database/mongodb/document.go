package mongodb

import (
	"time"

	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// queryDocument is the shape of a queries document as written by the collector.
// Fields whose BSON type varies between collector versions are kept raw.
type queryDocument struct {
	ID           bson.RawValue `bson:"_id"`
	Timestamp    bson.RawValue `bson:"timestamp"`
	ClientIP     string        `bson:"client_ip"`
	Domain       string        `bson:"domain"`
	QueryType    string        `bson:"query_type"`
	Action       string        `bson:"action"`
	ResponseTime bson.RawValue `bson:"response_time"`
}

func (d queryDocument) toQueryLog() database.QueryLog {
	entry := database.QueryLog{
		Timestamp: d.timestamp(),
		ClientIP:  d.ClientIP,
		Domain:    d.Domain,
		QueryType: d.QueryType,
		Action:    database.Action(d.Action),
	}
	if rt, ok := numeric(d.ResponseTime); ok {
		entry.ResponseTime = &rt
	}
	return entry
}

// timestamp renders the event time. Without a stored timestamp it falls back to
// the creation time embedded in an ObjectID.
func (d queryDocument) timestamp() string {
	switch d.Timestamp.Type {
	case bson.TypeDateTime:
		return d.Timestamp.Time().UTC().Format(time.RFC3339)
	case bson.TypeString:
		return d.Timestamp.StringValue()
	case bson.TypeTimestamp:
		secs, _ := d.Timestamp.Timestamp()
		return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
	}

	if oid, ok := d.ID.ObjectIDOK(); ok {
		return oid.Timestamp().UTC().Format(time.RFC3339)
	}
	return ""
}

func numeric(v bson.RawValue) (float64, bool) {
	switch v.Type {
	case bson.TypeDouble:
		return v.Double(), true
	case bson.TypeInt32:
		return float64(v.Int32()), true
	case bson.TypeInt64:
		return float64(v.Int64()), true
	}
	return 0, false
}
