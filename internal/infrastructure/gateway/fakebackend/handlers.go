package fakebackend

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type message map[string]string

func (b *Backend) routes() {
	e := b.Echo
	e.Use(b.instrument)
	auth := b.bearer

	e.GET("/courses/all", b.listCourses)
	e.GET("/courses/:id", b.getCourse)

	e.POST("/auth/login", b.login)
	e.POST("/auth/signup", b.signup)
	e.POST("/auth/verify", b.verify)
	e.GET("/auth/profile", b.profile, auth)
	e.POST("/auth/logout", b.logout, auth)

	e.GET("/comments/course/:id", b.courseComments)
	e.GET("/comments/user/:id", b.userComments)
	e.POST("/comments/", b.createComment)
	e.PUT("/comments/:id", b.updateComment)
	e.PUT("/comments/delete/:id", b.deleteComment, auth)

	e.GET("/lists/user/:id", b.userLists, auth)
	e.GET("/lists/:id", b.getList, auth)
	e.POST("/lists/", b.createList, auth)
	e.PUT("/lists/:id", b.updateList, auth)
	e.DELETE("/lists/delete/:id", b.deleteList, auth)
}

// bearer validates the HS256 credential and stores its subject as "user_id".
func (b *Backend) bearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, message{"message": "Token no proporcionado"})
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return b.secret, nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, message{"message": "Token inválido"})
		}

		b.mu.Lock()
		revoked := b.revoked[parts[1]]
		b.mu.Unlock()
		if revoked {
			return c.JSON(http.StatusUnauthorized, message{"message": "Token revocado"})
		}

		sub, _ := claims.GetSubject()
		userID, err := strconv.Atoi(sub)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, message{"message": "Token inválido"})
		}
		c.Set("user_id", userID)
		c.Set("token", parts[1])
		return next(c)
	}
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

func (b *Backend) listCourses(c echo.Context) error {
	b.mu.Lock()
	data := slices.Clone(b.courses)
	b.mu.Unlock()
	if data == nil {
		data = []Course{}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// getCourse answers with a one-element array, like the real backend does.
func (b *Backend) getCourse(c echo.Context) error {
	id, ok := pathID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	if ok {
		for _, course := range b.courses {
			if course.ID == id {
				return c.JSON(http.StatusOK, map[string]any{"data": []Course{course}})
			}
		}
	}
	return c.JSON(http.StatusNotFound, message{"message": "Curso no encontrado"})
}

type credentials struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (u *user) wire() map[string]any {
	return map[string]any{"id": u.id, "email": u.email, "name": u.name, "verified": u.verified}
}

func (b *Backend) login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"message": "payload inválido"})
	}
	b.mu.Lock()
	u, ok := b.users[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, message{"message": "Usuario no encontrado"})
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, message{"message": "Credenciales inválidas"})
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u.wire(), "token": b.IssueToken(u.id, b.tokenTTL)})
}

func (b *Backend) signup(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, message{"message": "Datos incompletos"})
	}
	b.mu.Lock()
	_, exists := b.users[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if exists {
		return c.JSON(http.StatusConflict, message{"message": "El correo ya está registrado"})
	}
	b.AddUser(req.Email, req.Name, req.Password, false)
	b.mu.Lock()
	u := b.users[strings.ToLower(req.Email)]
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, map[string]any{"user": u.wire()})
}

func (b *Backend) verify(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"message": "payload inválido"})
	}
	b.mu.Lock()
	u, ok := b.users[strings.ToLower(req.Email)]
	if !ok || u.code != req.Code {
		b.mu.Unlock()
		return c.JSON(http.StatusBadRequest, message{"message": "Código inválido"})
	}
	u.verified = true
	id := u.id
	b.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"message": "Cuenta verificada", "token": b.IssueToken(id, b.tokenTTL)})
}

func (b *Backend) userByID(id int) *user {
	for _, u := range b.users {
		if u.id == id {
			return u
		}
	}
	return nil
}

func (b *Backend) profile(c echo.Context) error {
	b.mu.Lock()
	u := b.userByID(c.Get("user_id").(int))
	b.mu.Unlock()
	if u == nil {
		return c.JSON(http.StatusUnauthorized, message{"message": "Usuario no encontrado"})
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u.wire()})
}

func (b *Backend) logout(c echo.Context) error {
	b.mu.Lock()
	b.revoked[c.Get("token").(string)] = true
	b.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) commentsWhere(match func(*comment) bool) []comment {
	out := []comment{}
	for _, cm := range b.comments {
		if !cm.active || !match(cm) {
			continue
		}
		cp := *cm
		if u := b.userByID(cm.UserID); u != nil {
			cp.UserName = u.name
		}
		out = append(out, cp)
	}
	return out
}

func (b *Backend) courseComments(c echo.Context) error {
	id, _ := pathID(c)
	b.mu.Lock()
	data := b.commentsWhere(func(cm *comment) bool { return cm.CourseID == id })
	b.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

func (b *Backend) userComments(c echo.Context) error {
	id, _ := pathID(c)
	b.mu.Lock()
	data := b.commentsWhere(func(cm *comment) bool { return cm.UserID == id })
	b.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

type commentRequest struct {
	CourseID    string  `json:"course_id"`
	UserID      string  `json:"user_id"`
	Description *string `json:"description"`
	Rating      int     `json:"rating"`
	Difficulty  int     `json:"difficulty"`
}

func validScore(n int) bool { return n >= 1 && n <= 5 }

func (b *Backend) createComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"message": "payload inválido"})
	}
	courseID, err1 := strconv.Atoi(req.CourseID)
	userID, err2 := strconv.Atoi(req.UserID)
	if err1 != nil || err2 != nil || !validScore(req.Rating) || !validScore(req.Difficulty) {
		return c.JSON(http.StatusBadRequest, message{"message": "Datos de comentario inválidos"})
	}
	b.mu.Lock()
	b.nextID++
	cm := &comment{
		ID: b.nextID, UserID: userID, CourseID: courseID, Description: req.Description,
		Rating: req.Rating, Difficulty: req.Difficulty, CreatedAt: time.Now().UTC(), active: true,
	}
	b.comments = append(b.comments, cm)
	out := *cm
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, map[string]any{"data": out})
}

func (b *Backend) findComment(id int) *comment {
	for _, cm := range b.comments {
		if cm.ID == id && cm.active {
			return cm
		}
	}
	return nil
}

func (b *Backend) updateComment(c echo.Context) error {
	id, _ := pathID(c)
	var req commentRequest
	if err := c.Bind(&req); err != nil || !validScore(req.Rating) || !validScore(req.Difficulty) {
		return c.JSON(http.StatusBadRequest, message{"message": "Datos de comentario inválidos"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cm := b.findComment(id)
	if cm == nil {
		return c.JSON(http.StatusNotFound, message{"message": "Comentario no encontrado"})
	}
	cm.Description = req.Description
	cm.Rating = req.Rating
	cm.Difficulty = req.Difficulty
	return c.JSON(http.StatusOK, map[string]any{"data": *cm})
}

func (b *Backend) deleteComment(c echo.Context) error {
	id, _ := pathID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	cm := b.findComment(id)
	if cm == nil {
		return c.JSON(http.StatusNotFound, message{"message": "Comentario no encontrado"})
	}
	cm.active = false
	return c.JSON(http.StatusOK, message{"message": "Comentario eliminado"})
}

func (b *Backend) userLists(c echo.Context) error {
	id, _ := pathID(c)
	b.mu.Lock()
	data := []list{}
	for _, l := range b.lists {
		if l.UserID == id {
			data = append(data, *l)
		}
	}
	b.mu.Unlock()
	slices.SortFunc(data, func(x, y list) int { return x.ID - y.ID })
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

func (b *Backend) getList(c echo.Context) error {
	id, _ := pathID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.lists[id]
	if !ok {
		return c.JSON(http.StatusNotFound, message{"message": "Lista no encontrada"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": *l})
}

type listRequest struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Courses []string `json:"courses"`
}

func (r listRequest) courseIDs() ([]int, bool) {
	out := make([]int, 0, len(r.Courses))
	for _, s := range r.Courses {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func (b *Backend) createList(c echo.Context) error {
	var req listRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, message{"message": "Nombre requerido"})
	}
	userID, err := strconv.Atoi(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, message{"message": "Usuario inválido"})
	}
	id := b.AddList(userID, req.Name)
	b.mu.Lock()
	out := *b.lists[id]
	b.mu.Unlock()
	return c.JSON(http.StatusCreated, map[string]any{"data": out})
}

func (b *Backend) updateList(c echo.Context) error {
	id, _ := pathID(c)
	var req listRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message{"message": "payload inválido"})
	}
	courses, ok := req.courseIDs()
	if !ok {
		return c.JSON(http.StatusBadRequest, message{"message": "Cursos inválidos"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	l, found := b.lists[id]
	if !found {
		return c.JSON(http.StatusNotFound, message{"message": "Lista no encontrada"})
	}
	l.Name = req.Name
	l.Courses = courses
	return c.JSON(http.StatusOK, map[string]any{"data": *l})
}

func (b *Backend) deleteList(c echo.Context) error {
	id, _ := pathID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.lists[id]; !ok {
		return c.JSON(http.StatusNotFound, message{"message": "Lista no encontrada"})
	}
	delete(b.lists, id)
	return c.NoContent(http.StatusNoContent)
}
