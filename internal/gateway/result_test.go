package gateway

import "testing"

func TestDecodeAIResult_Array(t *testing.T) {
	res, err := DecodeAIResult([]byte(`[{"_id":"t1","title":"one","state":"Not Started"},{"_id":"t2","title":"two","state":"Completed"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindTaskList || len(res.Tasks) != 2 {
		t.Fatalf("expected task list of 2, got %+v", res)
	}
}

func TestDecodeAIResult_EmptyArray(t *testing.T) {
	res, err := DecodeAIResult([]byte(` [] `))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindTaskList || len(res.Tasks) != 0 {
		t.Fatalf("expected empty task list, got %+v", res)
	}
}

func TestDecodeAIResult_ErrorBeatsMessage(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"error":"Unknown command","message":"ignored"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindError || res.Error != "Unknown command" {
		t.Fatalf("expected error result, got %+v", res)
	}
}

func TestDecodeAIResult_Message(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"message":"Task deleted"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindMessage || res.Message != "Task deleted" {
		t.Fatalf("expected message result, got %+v", res)
	}
}

func TestDecodeAIResult_EmptyErrorFallsThrough(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"error":"","message":"ok"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindMessage {
		t.Fatalf("expected message result, got %+v", res)
	}
}

func TestDecodeAIResult_SingleTask(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"_id":"x1","title":"Prepare presentation","state":"Not Started"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindSingleTask || res.Task.ID != "x1" {
		t.Fatalf("expected single task, got %+v", res)
	}
}

func TestDecodeAIResult_NonStringError(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"error":{"code":42}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindError || res.Error != `{"code":42}` {
		t.Fatalf("expected raw error text, got %+v", res)
	}
}

func TestDecodeAIResult_NullErrorIgnored(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"error":null,"_id":"a","title":"t","state":"Completed"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindSingleTask {
		t.Fatalf("expected single task, got %+v", res)
	}
}

func TestDecodeAIResult_BadShapes(t *testing.T) {
	for _, body := range []string{``, `"hello"`, `42`, `null`, `[1,2`, `{"title":`} {
		if _, err := DecodeAIResult([]byte(body)); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
}

func TestDecodeAIResult_FalsyFieldsIgnored(t *testing.T) {
	for _, body := range []string{
		`{"error":0,"_id":"a","title":"t","state":"Completed"}`,
		`{"error":false,"message":"","_id":"a","title":"t","state":"Completed"}`,
		`{"error":"","message":0.0,"_id":"a","title":"t","state":"Completed"}`,
	} {
		res, err := DecodeAIResult([]byte(body))
		if err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if res.Kind != KindSingleTask {
			t.Fatalf("%s: expected single task, got %+v", body, res)
		}
	}
}

func TestDecodeAIResult_NonZeroNumberError(t *testing.T) {
	res, err := DecodeAIResult([]byte(`{"error":500}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Kind != KindError || res.Error != "500" {
		t.Fatalf("expected error result, got %+v", res)
	}
}
