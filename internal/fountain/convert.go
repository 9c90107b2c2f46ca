/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "producerstoolkit/internal/domain"

// ToDomainScenes converts parsed scenes into the persisted project model.
func ToDomainScenes(s Script) []domain.Scene {
	out := make([]domain.Scene, 0, len(s.Scenes))
	for _, sc := range s.Scenes {
		out = append(out, domain.Scene{
			Number:     sc.Number,
			Heading:    sc.Heading,
			IntExt:     sc.IntExt,
			Location:   sc.Location,
			TimeOfDay:  sc.TimeOfDay,
			WordCount:  sc.WordCount,
			Characters: sc.Characters,
		})
	}
	return out
}

// Metadata lifts the common title page keys into project metadata.
func Metadata(s Script) domain.Metadata {
	return domain.Metadata{
		Title:     s.TitlePage["title"],
		Author:    firstOf(s.TitlePage, "author", "authors", "credit"),
		DraftDate: firstOf(s.TitlePage, "draft date", "date"),
		Contact:   s.TitlePage["contact"],
		Notes:     s.TitlePage["notes"],
	}
}

func firstOf(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
