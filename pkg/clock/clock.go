package clock

import "time"

// Clock отдаёт текущее время. Подменяется в тестах.
type Clock interface {
	Now() time.Time
}

// System читает системные часы и переводит время в заданную локацию.
type System struct {
	Location *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{Location: loc}
}

func (c System) Now() time.Time {
	return time.Now().In(c.Location)
}

// Fixed всегда возвращает одно и то же время, пока его не сдвинут через Set.
type Fixed struct {
	T time.Time
}

func (c *Fixed) Now() time.Time {
	return c.T
}

func (c *Fixed) Set(t time.Time) {
	c.T = t
}
